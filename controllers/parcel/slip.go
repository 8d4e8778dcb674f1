package parcel

import (
	"io"
	"strings"

	"parcel-delivery/logger"
	"parcel-delivery/types"

	"github.com/gofiber/fiber/v2"
)

const maxSlipImageSize = 10 * 1024 * 1024

// ParseSlip accepts an address-slip photo and returns the extracted
// sender/receiver fields so the client can prefill the parcel form.
func (pc *ParcelController) ParseSlip(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("slip_image")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "slip_image file is required",
			Data:    nil,
		})
	}

	if fileHeader.Size > maxSlipImageSize {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Image must be smaller than 10MB",
			Data:    nil,
		})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Only image files are supported",
			Data:    nil,
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded slip image", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to read uploaded file",
			Data:    nil,
		})
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Failed to read uploaded slip image", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to read uploaded file",
			Data:    nil,
		})
	}

	parsed, err := pc.SlipParser.Parse(c.UserContext(), imageBytes, mimeType)
	if err != nil {
		logger.Error("Failed to parse address slip", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to parse address slip",
			Data:    nil,
		})
	}

	logger.Success("Address slip parsed successfully")

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Address slip parsed successfully",
		Data:    parsed,
	})
}
