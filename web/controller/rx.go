package controller

import (
	"errors"
	"io"
	"net/http"

	"rx-vault/logger"
	"rx-vault/web/middleware"
	"rx-vault/web/service"
	"rx-vault/web/session"

	"github.com/gin-gonic/gin"
)

// maxParseMemory is how much of a multipart body is held in memory while
// parsing; the rest spills to disk. The upload cap itself is enforced by the
// MaxUploadSize middleware.
const maxParseMemory = 32 << 20

// RxController handles the authenticated pages: the upload dashboard, the
// upload itself and the prescriptions listing.
type RxController struct {
	BaseController

	rxService   *service.PrescriptionService
	maxUploadMB int
}

// NewRxController creates a new RxController and initializes its routes. All
// of them sit behind the login check; the upload route additionally gets the
// size-limit middleware.
func NewRxController(g *gin.RouterGroup, rxService *service.PrescriptionService, maxUploadBytes int64, maxUploadMB int) *RxController {
	a := &RxController{rxService: rxService, maxUploadMB: maxUploadMB}

	g.GET("/dashboard", a.checkLogin, a.dashboard)
	g.POST("/upload", a.checkLogin, middleware.MaxUploadSize(maxUploadBytes, maxUploadMB), a.upload)
	g.GET("/prescriptions", a.checkLogin, a.prescriptions)

	return a
}

func (a *RxController) dashboard(c *gin.Context) {
	html(c, "dashboard.html", nil)
}

// upload validates and proxies one prescription image, then records it.
func (a *RxController) upload(c *gin.Context) {
	user := session.GetLoginUser(c)

	if err := c.Request.ParseMultipartForm(maxParseMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			redirect(c, "/dashboard", "error", middleware.SizeLimitMessage(a.maxUploadMB))
			return
		}
		redirect(c, "/dashboard", "error", "Upload failed: "+err.Error())
		return
	}

	date := c.Request.FormValue("prescription_date")

	var filename, contentType string
	var data []byte
	if files := c.Request.MultipartForm.File["image"]; len(files) > 0 {
		header := files[0]
		filename = header.Filename
		contentType = header.Header.Get("Content-Type")

		file, err := header.Open()
		if err != nil {
			redirect(c, "/dashboard", "error", "Upload failed: "+err.Error())
			return
		}
		data, err = io.ReadAll(file)
		file.Close()
		if err != nil {
			redirect(c, "/dashboard", "error", "Upload failed: "+err.Error())
			return
		}
	}

	_, err := a.rxService.Upload(c.Request.Context(), user.Id, date, filename, contentType, data)
	if err != nil {
		var verr service.ValidationError
		if errors.As(err, &verr) {
			redirect(c, "/dashboard", "error", verr.Error())
			return
		}
		logger.Warningf("upload by %s failed: %v", user.Email, err)
		redirect(c, "/dashboard", "error", "Upload failed: "+err.Error())
		return
	}

	redirect(c, "/dashboard", "success", "Prescription uploaded successfully.")
}

// prescriptions renders every stored prescription with uploader metadata.
func (a *RxController) prescriptions(c *gin.Context) {
	items, err := a.rxService.List(c.Request.Context())
	if err != nil {
		logger.Warning("listing prescriptions failed:", err)
		session.Flash(c, "error", "Could not fetch prescriptions: "+err.Error())
	}
	html(c, "prescriptions.html", gin.H{"prescriptions": items})
}
