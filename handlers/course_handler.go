package handlers

import (
	"net/http"

	"github.com/fairwaylabs/trip-system/services"
)

// CourseHandler covers the course catalog and its tee sets. Authorization is
// route-level: reads are public, mutations sit behind RequireAuth.
type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(cs services.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: cs,
	}
}

// CreateHandler handles POST /courses.
func (h *CourseHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateCourseInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	course, err := h.courseService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"course": course}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /courses/{courseID}, tee sets included.
func (h *CourseHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "courseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	course, err := h.courseService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"course": course}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /courses.
func (h *CourseHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"courses": courses}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler handles PUT /courses/{courseID}.
func (h *CourseHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "courseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateCourseInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	course, err := h.courseService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"course": course}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /courses/{courseID}.
func (h *CourseHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "courseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.courseService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddTeeSetHandler handles POST /courses/{courseID}/tee-sets.
func (h *CourseHandler) AddTeeSetHandler(w http.ResponseWriter, r *http.Request) {
	courseID, err := getIDFromURL(r, "courseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TeeSetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teeSet, err := h.courseService.AddTeeSet(r.Context(), courseID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tee_set": teeSet}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTeeSetHandler handles GET /tee-sets/{teeSetID}.
func (h *CourseHandler) GetTeeSetHandler(w http.ResponseWriter, r *http.Request) {
	teeSetID, err := getIDFromURL(r, "teeSetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teeSet, err := h.courseService.GetTeeSet(r.Context(), teeSetID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tee_set": teeSet}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateTeeSetHandler handles PUT /tee-sets/{teeSetID}.
func (h *CourseHandler) UpdateTeeSetHandler(w http.ResponseWriter, r *http.Request) {
	teeSetID, err := getIDFromURL(r, "teeSetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TeeSetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teeSet, err := h.courseService.UpdateTeeSet(r.Context(), teeSetID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tee_set": teeSet}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTeeSetHandler handles DELETE /tee-sets/{teeSetID}.
func (h *CourseHandler) DeleteTeeSetHandler(w http.ResponseWriter, r *http.Request) {
	teeSetID, err := getIDFromURL(r, "teeSetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.courseService.DeleteTeeSet(r.Context(), teeSetID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
