package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/service"
)

// formPicture reads the "picture" multipart field. The caller must call the returned close func.
func formPicture(c *gin.Context) (*service.Picture, func(), error) {
	header, err := c.FormFile("picture")
	if err != nil {
		return nil, nil, common.NewValidationError("picture", "no file was submitted")
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	pic := &service.Picture{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return pic, func() { _ = file.Close() }, nil
}
