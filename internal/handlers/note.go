package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	dom "github.com/p-udaykiran/noteapp/internal/domain"
	"github.com/p-udaykiran/noteapp/internal/dto"
	"github.com/p-udaykiran/noteapp/internal/service"
)

type NoteHandler struct {
	svc *service.NoteService
}

func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// List godoc
// @Summary      List all notes
// @Tags         notes
// @Produce      json
// @Success      200  {object}  dto.ListNotesResponse
// @Success      304
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /notes [get]
func (h *NoteHandler) List(c *gin.Context) { h.index(c, "") }

// Get godoc
// @Summary      Get a note by ID
// @Tags         notes
// @Produce      json
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  dto.NoteResponse
// @Success      304
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	// Id-less conventional actions in lower case land here rather than in NoRoute.
	id := c.Param("id")
	switch strings.ToLower(id) {
	case "index":
		h.index(c, "")
	case "create":
		h.newForm(c, "")
	default:
		h.details(c, id)
	}
}

// Create godoc
// @Summary      Create a note
// @Tags         notes
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      dto.CreateNoteRequest  true  "Note"
// @Success      201   {object}  dto.NoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /notes [post]
func (h *NoteHandler) Create(c *gin.Context) { h.create(c, "") }

// Update godoc
// @Summary      Update a note
// @Tags         notes
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path      string                 true  "Note ID"
// @Param        body  body      dto.UpdateNoteRequest  true  "Partial update"
// @Success      200   {object}  dto.NoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /notes/{id}/edit [post]
func (h *NoteHandler) Update(c *gin.Context) { h.update(c, c.Param("id")) }

// Delete godoc
// @Summary      Delete a note
// @Tags         notes
// @Param        id   path  string  true  "Note ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /notes/{id}/delete [post]
func (h *NoteHandler) Delete(c *gin.Context) { h.delete(c, c.Param("id")) }

func (h *NoteHandler) index(c *gin.Context, _ string) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	items := notesToResponses(list)
	if wantsHTML(c) {
		c.HTML(http.StatusOK, "index.html", gin.H{"Title": "Notes", "Notes": items})
		return
	}
	jsonWithETag(c, dto.ListNotesResponse{Items: items})
}

func (h *NoteHandler) details(c *gin.Context, id string) {
	n, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if wantsHTML(c) {
		c.HTML(http.StatusOK, "details.html", gin.H{"Title": n.Title, "Note": noteToResponse(n)})
		return
	}
	jsonWithETag(c, noteToResponse(n))
}

func (h *NoteHandler) create(c *gin.Context, _ string) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBind(&req); err != nil {
		h.rejectForm(c, "New note", "/notes", dto.NoteResponse{Title: req.Title, Body: req.Body}, bindMessage(err))
		return
	}
	n, err := h.svc.Create(c.Request.Context(), req.Title, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrInvalid) {
			h.rejectForm(c, "New note", "/notes", dto.NoteResponse{Title: req.Title, Body: req.Body}, err.Error())
			return
		}
		fail(c, err)
		return
	}
	location := "/notes/" + n.ID
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, location)
		return
	}
	c.Header("Location", location)
	c.JSON(http.StatusCreated, noteToResponse(n))
}

func (h *NoteHandler) update(c *gin.Context, id string) {
	var req dto.UpdateNoteRequest
	if err := c.ShouldBind(&req); err != nil {
		h.rejectForm(c, "Edit note", "/notes/"+id+"/edit", patchedForm(id, req), bindMessage(err))
		return
	}
	n, err := h.svc.Update(c.Request.Context(), id, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrInvalid) {
			h.rejectForm(c, "Edit note", "/notes/"+id+"/edit", patchedForm(id, req), err.Error())
			return
		}
		fail(c, err)
		return
	}
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/notes/"+n.ID)
		return
	}
	c.JSON(http.StatusOK, noteToResponse(n))
}

func (h *NoteHandler) delete(c *gin.Context, id string) {
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Status(http.StatusNoContent)
}

// newForm renders the empty create form.
func (h *NoteHandler) newForm(c *gin.Context, _ string) {
	c.HTML(http.StatusOK, "form.html", gin.H{"Title": "New note", "Action": "/notes", "Note": dto.NoteResponse{}})
}

// editForm renders the edit form for browsers and the note itself for API clients.
func (h *NoteHandler) editForm(c *gin.Context, id string) {
	n, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if !wantsHTML(c) {
		jsonWithETag(c, noteToResponse(n))
		return
	}
	c.HTML(http.StatusOK, "form.html", gin.H{"Title": "Edit note", "Action": "/notes/" + n.ID + "/edit", "Note": noteToResponse(n)})
}

// confirmDelete renders the delete confirmation page.
func (h *NoteHandler) confirmDelete(c *gin.Context, id string) {
	n, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if !wantsHTML(c) {
		jsonWithETag(c, noteToResponse(n))
		return
	}
	c.HTML(http.StatusOK, "delete.html", gin.H{"Title": "Delete note", "Note": noteToResponse(n)})
}

// rejectForm answers a 400: the form again for browsers, an error body otherwise.
func (h *NoteHandler) rejectForm(c *gin.Context, title, action string, n dto.NoteResponse, msg string) {
	if wantsHTML(c) {
		c.HTML(http.StatusBadRequest, "form.html", gin.H{"Title": title, "Action": action, "Note": n, "Error": msg})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

func patchedForm(id string, req dto.UpdateNoteRequest) dto.NoteResponse {
	n := dto.NoteResponse{ID: id}
	if req.Title != nil {
		n.Title = *req.Title
	}
	if req.Body != nil {
		n.Body = *req.Body
	}
	return n
}

func noteToResponse(n dom.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func notesToResponses(list []dom.Note) []dto.NoteResponse {
	out := make([]dto.NoteResponse, len(list))
	for i := range list {
		out[i] = noteToResponse(list[i])
	}
	return out
}
