package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/api/middleware"
	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/api/view"
	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
	"github.com/dcic-turnos/turnos-web/internal/core/service"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

type ProfileHandler struct {
	responder
	profile ports.ProfileService
}

func NewProfileHandler(profile ports.ProfileService, codec *session.Codec, bundle *i18n.Bundle, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		responder: responder{codec: codec, bundle: bundle, log: log},
		profile:   profile,
	}
}

// Page handles GET /perfil.
//
// @Summary      Current user
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  ErrorResponse
// @Router       /perfil [get]
func (h *ProfileHandler) Page(c echo.Context) error {
	u, err := h.profile.Get(c.Request().Context(), middleware.UserFrom(c))
	if err != nil {
		return err
	}
	if middleware.WantsJSON(c) {
		return c.JSON(http.StatusOK, u)
	}
	return h.page(c, http.StatusOK, "profile", "profile.title", view.Profile{User: *u})
}

// Update handles POST /perfil.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Profile"
// @Success      200   {object}  actionResponse{data=domain.User}
// @Failure      422   {object}  actionResponse
// @Router       /perfil [post]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return h.failure(c, "/perfil", "profile_update", "profile.update_failed", bindError(err), nil)
	}
	form := map[string]string{"full_name": req.FullName, "email": req.Email}
	if err := c.Validate(&req); err != nil {
		return h.failure(c, "/perfil", "profile_update", "profile.update_failed", err, form)
	}

	u, err := h.profile.Update(c.Request().Context(), middleware.UserFrom(c), req.FullName, req.Email)
	if err != nil {
		return h.failure(c, "/perfil", "profile_update", "profile.update_failed", err, form)
	}
	h.refresh(c, *u)
	return h.success(c, "/perfil", outcome{action: "profile_update", key: "profile.updated", data: u})
}

// UploadPicture handles POST /perfil/picture (multipart field "picture").
//
// @Summary      Upload profile picture
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        picture  formData  file  true  "JPEG, PNG or WebP, up to 5 MB"
// @Success      200      {object}  actionResponse{data=domain.User}
// @Failure      422      {object}  actionResponse
// @Router       /perfil/picture [post]
func (h *ProfileHandler) UploadPicture(c echo.Context) error {
	fh, err := c.FormFile("picture")
	if err != nil {
		return h.failure(c, "/perfil", "picture_upload", "profile.picture_failed", pictureError("validation.required"), nil)
	}
	if fh.Size > service.MaxPictureSize {
		return h.failure(c, "/perfil", "picture_upload", "profile.picture_failed", pictureError("validation.picture_size"), nil)
	}
	f, err := fh.Open()
	if err != nil {
		return h.failure(c, "/perfil", "picture_upload", "profile.picture_failed", err, nil)
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		contentType = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return h.failure(c, "/perfil", "picture_upload", "profile.picture_failed", err, nil)
		}
	}

	u, err := h.profile.UploadPicture(c.Request().Context(), middleware.UserFrom(c), ports.ProfilePicture{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Body:        io.LimitReader(f, service.MaxPictureSize),
	})
	if err != nil {
		return h.failure(c, "/perfil", "picture_upload", "profile.picture_failed", err, nil)
	}
	h.refresh(c, *u)
	return h.success(c, "/perfil", outcome{action: "picture_upload", key: "profile.picture_updated", data: u})
}

// refresh rewrites the session cookie so the header shows the new user data.
func (h *ProfileHandler) refresh(c echo.Context, u domain.User) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return
	}
	if err := h.codec.Write(c.Response(), ports.Session{User: u, Token: sess.Token}); err != nil {
		h.log.Warn().Err(err).Int64("user_id", u.ID).Msg("session refresh failed")
	}
}

func pictureError(key string) error {
	return &domain.ValidationError{Fields: domain.FieldErrors{"picture": {key}}}
}
