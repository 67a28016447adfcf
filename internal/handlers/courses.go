package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursecatalog/api/internal/models"
)

type courseRequest struct {
	CourseName        string `json:"courseName"`
	CourseDescription string `json:"courseDescription"`
	Instructor        string `json:"instructor"`
}

func (r courseRequest) fields() models.CourseFields {
	return models.CourseFields{
		CourseName:        r.CourseName,
		CourseDescription: r.CourseDescription,
		Instructor:        r.Instructor,
	}
}

func (h HandlerSet) ListCourses(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h HandlerSet) CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidBody(c)
		return
	}

	course, err := h.courses.Create(c.Request.Context(), req.fields())
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.metrics.RecordMutation("create")
	c.JSON(http.StatusCreated, course)
}

func (h HandlerSet) UpdateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidBody(c)
		return
	}

	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), req.fields())
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.metrics.RecordMutation("update")
	c.JSON(http.StatusOK, course)
}

func (h HandlerSet) DeleteCourse(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	h.metrics.RecordMutation("delete")
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}
