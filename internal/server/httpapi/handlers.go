package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sibeni-li/khronos/internal/common"
	"github.com/sibeni-li/khronos/internal/server/models"
	"github.com/sibeni-li/khronos/internal/server/services"
	"github.com/sibeni-li/khronos/internal/server/stats"
)

type registerRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}

	user, token, err := h.Accounts.Register(c.Request.Context(), req.Username, req.Password, req.Confirmation)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "access_token": token})
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}

	token, err := h.Accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (h *handler) upload(c *gin.Context) {
	fh, err := c.FormFile(common.UploadFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			h.writeError(c, services.ErrMissingFile)
			return
		}
		h.writeError(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		h.writeError(c, err)
		return
	}

	receipt, err := h.Uploads.Ingest(c.Request.Context(), currentUser(c), fh.Filename, raw)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/analyses/%d", receipt.AnalysisID))
	c.JSON(http.StatusCreated, gin.H{"analysis_id": receipt.AnalysisID})
}

func (h *handler) dashboard(c *gin.Context) {
	summary, err := h.Reports.Dashboard(c.Request.Context(), currentUser(c))
	if errors.Is(err, stats.ErrNoData) {
		c.JSON(http.StatusOK, gin.H{"count": 0, "message": stats.ErrNoData.Error()})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *handler) history(c *gin.Context) {
	list, err := h.Reports.History(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []*models.Analysis{}
	}

	c.JSON(http.StatusOK, list)
}

func (h *handler) report(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(c, common.ErrorNotFound)
		return
	}

	report, err := h.Reports.Report(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *handler) download(c *gin.Context) {
	url, err := h.Library.LibraryURL(c.Request.Context())
	if errors.Is(err, services.ErrStorageDisabled) {
		abortWithError(c, http.StatusNotFound, errLibraryNotPresent)
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *handler) health(c *gin.Context) {
	if err := h.DB.PingContext(c.Request.Context()); err != nil {
		h.log.Warn(c.Request.Context(), "database ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
