package handlers

import (
	"net/http"
	"strconv"

	"iptvsite/internal/models"
	"iptvsite/internal/services"
	"iptvsite/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type BlogHandler struct {
	svc *services.BlogService
}

func NewBlogHandler(svc *services.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

type blogResponse struct {
	Message string       `json:"message"`
	Blog    *models.Blog `json:"blog"`
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

// ListPublished godoc
// @Summary Published blog posts
// @Tags blogs
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} models.BlogPage
// @Router /api/blogs [get]
func (h *BlogHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListPublished(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// GetBySlug godoc
// @Summary Published blog post by slug
// @Tags blogs
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} models.Blog
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/blogs/{slug} [get]
func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, b)
}

// ListAll godoc
// @Summary All blog posts (admin)
// @Tags blogs-admin
// @Produce json
// @Param status query string false "all, draft or published"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Success 200 {object} models.BlogPage
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/admin/blogs [get]
func (h *BlogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListAll(r.Context(), r.URL.Query().Get("status"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// Get godoc
// @Summary Blog post by id (admin)
// @Tags blogs-admin
// @Produce json
// @Param id path int true "Blog ID"
// @Success 200 {object} models.Blog
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/admin/blogs/{id} [get]
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	b, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, b)
}

// Create godoc
// @Summary Create a blog post
// @Description The slug is derived from the title. Content HTML is sanitized.
// @Tags blogs-admin
// @Accept json
// @Produce json
// @Param input body models.CreateBlogRequest true "Post"
// @Success 201 {object} blogResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/admin/blogs [post]
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBlogRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	b, err := h.svc.Create(r.Context(), req)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, blogResponse{Message: "Blog created successfully", Blog: b})
}

// Update godoc
// @Summary Update a blog post
// @Tags blogs-admin
// @Accept json
// @Produce json
// @Param id path int true "Blog ID"
// @Param input body models.UpdateBlogRequest true "Fields to change"
// @Success 200 {object} blogResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/admin/blogs/{id} [put]
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	var req models.UpdateBlogRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	b, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, blogResponse{Message: "Blog updated successfully", Blog: b})
}

// Delete godoc
// @Summary Delete a blog post
// @Tags blogs-admin
// @Produce json
// @Param id path int true "Blog ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/admin/blogs/{id} [delete]
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Blog deleted successfully"})
}
