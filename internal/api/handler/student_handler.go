package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/api/envelope"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/api/metrics"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
)

// StudentHandler handles HTTP requests for student operations.
type StudentHandler struct {
	service ports.StudentService
	metrics *metrics.Metrics
}

func NewStudentHandler(service ports.StudentService, m *metrics.Metrics) *StudentHandler {
	return &StudentHandler{service: service, metrics: m}
}

// List handles GET /students.
//
// @Summary      List students
// @Description  Newest first. search matches name or email, case-insensitively.
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        per_page  query     int     false  "Page size (default 10, max 100)"
// @Param        search    query     string  false  "Substring of name or email"
// @Success      200       {object}  envelope.Response{data=[]domain.Student,meta=envelope.Meta}
// @Failure      401       {object}  envelope.Response
// @Failure      500       {object}  envelope.Response
// @Router       /students [get]
func (h *StudentHandler) List(c echo.Context) error {
	page := queryInt(c, "page")
	perPage := queryInt(c, "per_page")
	search := c.QueryParam("search")

	result, err := h.service.List(c.Request().Context(), ports.ListStudentsInput{
		Page:    page,
		PerPage: perPage,
		Search:  search,
	})
	h.metrics.ObserveStudent("list", err)
	if err != nil {
		return err
	}
	h.metrics.ObservePageSize(len(result.Items))

	return c.JSON(http.StatusOK, envelope.Paginated("Students retrieved successfully", result.Items, pageMeta(c, result, search)))
}

// Create handles POST /students.
//
// @Summary      Create a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createStudentRequest  true  "Student details"
// @Success      201   {object}  envelope.Response{data=domain.Student}
// @Failure      400   {object}  envelope.Response
// @Failure      401   {object}  envelope.Response
// @Failure      409   {object}  envelope.Response
// @Failure      422   {object}  envelope.Response
// @Failure      500   {object}  envelope.Response
// @Router       /students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	var req createStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	student, err := h.service.Create(c.Request().Context(), ports.StudentInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	h.metrics.ObserveStudent("create", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, envelope.Success("Student created successfully", student))
}

// Get handles GET /students/:id.
//
// @Summary      Get a student
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  envelope.Response{data=domain.Student}
// @Failure      401  {object}  envelope.Response
// @Failure      404  {object}  envelope.Response
// @Router       /students/{id} [get]
func (h *StudentHandler) Get(c echo.Context) error {
	student, err := h.service.Get(c.Request().Context(), c.Param("id"))
	h.metrics.ObserveStudent("get", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope.Success("Student retrieved successfully", student))
}

// Update handles PUT and PATCH /students/:id. Both apply a partial update.
//
// @Summary      Update a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Student ID"
// @Param        body  body      updateStudentRequest  true  "Fields to change"
// @Success      200   {object}  envelope.Response{data=domain.Student}
// @Failure      400   {object}  envelope.Response
// @Failure      401   {object}  envelope.Response
// @Failure      404   {object}  envelope.Response
// @Failure      409   {object}  envelope.Response
// @Failure      422   {object}  envelope.Response
// @Failure      500   {object}  envelope.Response
// @Router       /students/{id} [put]
// @Router       /students/{id} [patch]
func (h *StudentHandler) Update(c echo.Context) error {
	var req updateStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	student, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toPatch())
	h.metrics.ObserveStudent("update", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope.Success("Student updated successfully", student))
}

// Delete handles DELETE /students/:id.
//
// @Summary      Delete a student
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  envelope.Response
// @Failure      401  {object}  envelope.Response
// @Failure      404  {object}  envelope.Response
// @Failure      500  {object}  envelope.Response
// @Router       /students/{id} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), c.Param("id"))
	h.metrics.ObserveStudent("delete", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope.Success("Student deleted successfully", nil))
}

// queryInt reads an integer query parameter. Missing or unparsable values,
// including ones out of int range, read as 0 so the defaults apply.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

// pageMeta builds the meta block. Page links are absolute, point at the
// current path and keep per_page and search.
func pageMeta(c echo.Context, p *ports.StudentPage, search string) envelope.Meta {
	meta := envelope.Meta{
		CurrentPage: p.CurrentPage,
		LastPage:    p.LastPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
	}

	link := func(page int) *string {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(p.PerPage))
		if search != "" {
			q.Set("search", search)
		}
		u := url.URL{
			Scheme:   c.Scheme(),
			Host:     c.Request().Host,
			Path:     c.Request().URL.Path,
			RawQuery: q.Encode(),
		}
		s := u.String()
		return &s
	}

	if p.HasNext() {
		meta.NextPageURL = link(p.CurrentPage + 1)
	}
	if p.HasPrev() {
		meta.PrevPageURL = link(p.CurrentPage - 1)
	}
	return meta
}
