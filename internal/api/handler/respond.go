package handler

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/martijn/stockpoint/internal/api/dto"
	"github.com/martijn/stockpoint/internal/api/util"
	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/service"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("digits", validateDigits)
		}
	})
}

func validateDigits(fl validator.FieldLevel) bool {
	return domain.ValidNationalID(fl.Field().String())
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Bad Request",
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

// respondError maps the service error taxonomy onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var (
		validationErr *service.ValidationError
		duplicateErr  *service.DuplicateError
		notFoundErr   *service.NotFoundError
	)

	status := http.StatusInternalServerError
	resp := dto.ErrorResponse{Message: err.Error()}

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		resp.Message = validationErr.Message
		resp.Fields = validationErr.Fields
	case errors.As(err, &duplicateErr):
		status = http.StatusConflict
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	default:
		_ = c.Error(err)
		resp.Message = "An unexpected error occurred"
	}

	resp.Error = http.StatusText(status)
	resp.Code = status
	c.JSON(status, resp)
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// listFilter parses query, order, page and per_page of a list request
func listFilter(c *gin.Context, fields util.FieldSet) (util.ListFilter, bool) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(util.DefaultPerPage)))

	filter, err := util.BuildListFilter(c.Query("query"), c.Query("order"), page, perPage, fields)
	if err != nil {
		badRequest(c, err.Error())
		return filter, false
	}
	return filter, true
}

func pagination(filter util.ListFilter, total int) dto.PaginationInfo {
	return dto.PaginationInfo{
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: filter.TotalPages(total),
	}
}
