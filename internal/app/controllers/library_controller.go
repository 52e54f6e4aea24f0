package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/models/dto"
	"github.com/arunhegde/campusdesk/internal/app/services"
	"github.com/arunhegde/campusdesk/internal/middleware"
)

// LibraryController handles the book circulation workflow
type LibraryController struct {
	libraryService *services.LibraryService
}

// NewLibraryController creates a new LibraryController
func NewLibraryController(libraryService *services.LibraryService) *LibraryController {
	return &LibraryController{
		libraryService: libraryService,
	}
}

// AddBook catalogues a book
// @Summary Add a book
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddBookRequest true "Book information"
// @Success 201 {object} dto.APIResponse "Book added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /library/books [post]
func (c *LibraryController) AddBook(ctx *gin.Context) {
	var req dto.AddBookRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	book, err := c.libraryService.AddBook(ctx, req.Barcode, req.Title)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(book))
}

// ListBooks returns the catalogue
// @Summary List books
// @Tags library
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Books retrieved"
// @Router /library/books [get]
func (c *LibraryController) ListBooks(ctx *gin.Context) {
	books, err := c.libraryService.ListBooks(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(books))
}

// CreateBorrowRequest opens a borrow request
// @Summary Request to borrow a book
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBorrowRequest true "Borrow request"
// @Success 201 {object} dto.APIResponse "Borrow request created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /library/borrow-requests [post]
func (c *LibraryController) CreateBorrowRequest(ctx *gin.Context) {
	var req dto.CreateBorrowRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	request, err := c.libraryService.CreateBorrowRequest(ctx, req.Student, req.BookBarcode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(request))
}

// ListBorrowRequests returns borrow requests matching optional filters
// @Summary List borrow requests
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param student query string false "Filter by student"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.APIResponse "Borrow requests retrieved"
// @Router /library/borrow-requests [get]
func (c *LibraryController) ListBorrowRequests(ctx *gin.Context) {
	requests, err := c.libraryService.ListBorrowRequests(ctx, services.BorrowRequestFilter{
		Student: ctx.Query("student"),
		Status:  ctx.Query("status"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(requests))
}

// ResolveBorrowRequest approves or declines a borrow request
// @Summary Approve or decline a borrow request
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow request ID"
// @Param request body dto.ResolveBorrowRequest true "Resolution"
// @Success 200 {object} dto.APIResponse "Borrow request updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid action"
// @Failure 404 {object} dto.ErrorResponse "Borrow request not found"
// @Router /library/borrow-requests/{id} [patch]
func (c *LibraryController) ResolveBorrowRequest(ctx *gin.Context) {
	id := ctx.Param("id")

	var req dto.ResolveBorrowRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	actor := req.Actor
	if actor == "" {
		actor = middleware.ActorFromContext(ctx)
	}

	request, err := c.libraryService.ResolveBorrowRequest(ctx, id, req.Action, req.Days, req.Feedback, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(request))
}

// ReturnBook processes a book return
// @Summary Return a borrowed book
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ReturnBookRequest true "Barcode"
// @Success 200 {object} dto.APIResponse "Book returned"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "No borrowed book with this barcode"
// @Router /library/returns [post]
func (c *LibraryController) ReturnBook(ctx *gin.Context) {
	var req dto.ReturnBookRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	book, err := c.libraryService.ReturnBook(ctx, req.Barcode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(book))
}

// ListBorrowRecords returns the loan history
// @Summary List loan records
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param student query string false "Filter by student"
// @Success 200 {object} dto.APIResponse "Loan records retrieved"
// @Router /library/borrow-records [get]
func (c *LibraryController) ListBorrowRecords(ctx *gin.Context) {
	records, err := c.libraryService.ListBorrowRecords(ctx, ctx.Query("student"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(records))
}
