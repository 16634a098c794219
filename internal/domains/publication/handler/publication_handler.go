package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-playground/validator/v10"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/internal/domains/publication/service"
	"publications-backend/internal/shared/response"
)

// maxIndexedAuthors bounds the authors[i] scan for form bodies.
const maxIndexedAuthors = 1000

type PublicationHandler struct {
	publications service.PublicationService
	search       service.SearchService
}

func NewPublicationHandler(publications service.PublicationService, search service.SearchService) *PublicationHandler {
	return &PublicationHandler{
		publications: publications,
		search:       search,
	}
}

// RegisterRoutes mounts the publication endpoints on r.
func (h *PublicationHandler) RegisterRoutes(r gin.IRouter) {
	pubs := r.Group("/publications")
	{
		pubs.POST("/add", h.Add)
		pubs.PUT("/update/:pub_id", h.Update)
		pubs.DELETE("/remove/id/:pub_id", h.RemoveByID)
		pubs.DELETE("/remove", h.RemoveByFilter)
		pubs.GET("/id/:pub_id", h.QueryByID)
		pubs.GET("/search", h.Search)
		pubs.DELETE("/:pub_id/authors", h.RemoveAuthor)
	}
}

// ════════════════════════════════════════════════════════════════
// POST /publications/add
// ════════════════════════════════════════════════════════════════

func (h *PublicationHandler) Add(c *gin.Context) {
	var req model.AddPublicationRequest

	if isJSON(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, validationDetails(err))
			return
		}
	} else {
		if err := c.ShouldBindWith(&req, binding.Form); err != nil {
			response.ValidationError(c, validationDetails(err))
			return
		}
		req.Authors = append(req.Authors, indexedValues(c, "authors")...)
	}

	if err := req.Validate(); err != nil {
		response.ValidationError(c, validationDetails(err))
		return
	}

	result, err := h.publications.Add(c.Request.Context(), req)
	if model.HandlePublicationError(c, err) {
		return
	}

	response.JSON(c, http.StatusCreated, result)
}

// ════════════════════════════════════════════════════════════════
// PUT /publications/update/:pub_id
// ════════════════════════════════════════════════════════════════

func (h *PublicationHandler) Update(c *gin.Context) {
	pubID, ok := pubIDParam(c)
	if !ok {
		return
	}

	var req model.UpdatePublicationRequest
	if isJSON(c) {
		// An empty body is a no-op update.
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.ValidationError(c, validationDetails(err))
			return
		}
	} else {
		if err := c.ShouldBindWith(&req, binding.Form); err != nil {
			response.ValidationError(c, validationDetails(err))
			return
		}
		if change := formAuthorChange(c); change != nil {
			req.Author = change
		}
	}

	if err := req.Validate(); err != nil {
		response.ValidationError(c, validationDetails(err))
		return
	}

	result, err := h.publications.Update(c.Request.Context(), pubID, req)
	if model.HandlePublicationError(c, err) {
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// ════════════════════════════════════════════════════════════════
// DELETE /publications/remove/id/:pub_id
// ════════════════════════════════════════════════════════════════

func (h *PublicationHandler) RemoveByID(c *gin.Context) {
	pubID, ok := pubIDParam(c)
	if !ok {
		return
	}

	result, err := h.publications.RemoveByID(c.Request.Context(), pubID)
	if model.HandlePublicationError(c, err) {
		return
	}

	response.JSON(c, http.StatusAccepted, result)
}

// ════════════════════════════════════════════════════════════════
// DELETE /publications/remove
// Filter comes from a JSON body, a form body, or the query string.
// ════════════════════════════════════════════════════════════════

func (h *PublicationHandler) RemoveByFilter(c *gin.Context) {
	var req model.RemoveFilterRequest

	if err := bindRemoveFilter(c, &req); err != nil {
		response.ValidationError(c, validationDetails(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, validationDetails(err))
		return
	}

	result, err := h.publications.RemoveByFilter(c.Request.Context(), req.Filter())
	if model.HandlePublicationError(c, err) {
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// ════════════════════════════════════════════════════════════════
// DELETE /publications/:pub_id/authors?name=
// ════════════════════════════════════════════════════════════════

func (h *PublicationHandler) RemoveAuthor(c *gin.Context) {
	pubID, ok := pubIDParam(c)
	if !ok {
		return
	}

	name, present := c.GetQuery("name")
	if !present || strings.TrimSpace(name) == "" {
		response.ValidationError(c, map[string]string{"name": "name is required"})
		return
	}

	result, err := h.publications.RemoveAuthor(c.Request.Context(), pubID, name)
	if model.HandlePublicationError(c, err) {
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// ════════════════════════════════════════════════════════════════
// GET /publications/id/:pub_id
// ════════════════════════════════════════════════════════════════

func (h *PublicationHandler) QueryByID(c *gin.Context) {
	pubID, ok := pubIDParam(c)
	if !ok {
		return
	}

	result, err := h.search.QueryByID(c.Request.Context(), pubID)
	if model.HandlePublicationError(c, err) {
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// ════════════════════════════════════════════════════════════════
// GET /publications/search?title=&year=&year_op=&journal=&author=&sort_by=&descending=&limit=
// ════════════════════════════════════════════════════════════════

func (h *PublicationHandler) Search(c *gin.Context) {
	var req model.SearchRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, validationDetails(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, validationDetails(err))
		return
	}

	result, err := h.search.QueryBy(c.Request.Context(), req.Search())
	if model.HandlePublicationError(c, err) {
		return
	}

	response.JSON(c, http.StatusOK, result)
}

func pubIDParam(c *gin.Context) (int64, bool) {
	pubID, err := strconv.ParseInt(c.Param("pub_id"), 10, 64)
	if err != nil || pubID <= 0 {
		model.HandlePublicationError(c, model.ErrInvalidID)
		return 0, false
	}
	return pubID, true
}

func isJSON(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEJSON
}

// bindRemoveFilter reads the filter for DELETE /publications/remove. net/http does not
// parse DELETE bodies into PostForm, so form bodies are decoded by hand.
func bindRemoveFilter(c *gin.Context, req *model.RemoveFilterRequest) error {
	switch c.ContentType() {
	case binding.MIMEJSON:
		if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case binding.MIMEPOSTForm:
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return fmt.Errorf("parse form body: %w", err)
		}
		return binding.MapFormWithTag(req, form, "form")
	default:
		return c.ShouldBindQuery(req)
	}
}

// indexedValues collects key[0], key[1], ... from the posted form until the first gap.
func indexedValues(c *gin.Context, key string) []string {
	var values []string
	for i := 0; i < maxIndexedAuthors; i++ {
		v, ok := c.GetPostForm(fmt.Sprintf("%s[%d]", key, i))
		if !ok {
			break
		}
		values = append(values, v)
	}
	return values
}

func formAuthorChange(c *gin.Context) *model.AuthorChange {
	var change model.AuthorChange
	if v, ok := c.GetPostForm("author[old_author]"); ok {
		change.OldAuthor = &v
	}
	if v, ok := c.GetPostForm("author[new_author]"); ok {
		change.NewAuthor = &v
	}
	if change.OldAuthor == nil && change.NewAuthor == nil {
		return nil
	}
	return &change
}

// validationDetails turns binding and validation errors into a field -> message map.
func validationDetails(err error) map[string]string {
	details := make(map[string]string)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[strings.ToLower(fe.Field())] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
		return details
	}

	var ozzoErrs validation.Errors
	if errors.As(err, &ozzoErrs) {
		for field, fieldErr := range ozzoErrs {
			details[field] = fieldErr.Error()
		}
		return details
	}

	details["body"] = err.Error()
	return details
}
