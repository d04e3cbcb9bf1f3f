package util

import (
	"errors"
	"log"
	"runtime/debug"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/response"
	"github.com/gofiber/fiber/v2"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
	Meta       any
}

type OrderedSuccessResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Meta       any                  `json:"meta,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code       int
	Message    string
	DevMessage string
	Details    any
	Trace      string
}

type OrderedErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DevMessage string `json:"dev_message,omitempty"`
	Details    any    `json:"details,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

// SuccessResponse sends the standard success envelope.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	response := OrderedSuccessResponse{
		Success:    true,
		Message:    params.Message,
		Data:       params.Data,
		Pagination: params.Pagination,
		Meta:       params.Meta,
	}
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(response)
}

// ErrorResponse sends the standard error envelope. Outside production the
// underlying error and a stack trace are included.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	response := OrderedErrorResponse{
		Success: false,
		Message: params.Message,
	}
	if params.Details != nil {
		response.Details = params.Details
	}
	if !config.LoadAppConfig().IsProduction() {
		if len(errs) > 0 && errs[0] != nil {
			response.DevMessage = errs[0].Error()
			if params.Code == 0 || params.Code >= fiber.StatusInternalServerError {
				response.Trace = string(debug.Stack())
			}
		}

		if params.DevMessage != "" {
			response.DevMessage = params.DevMessage
		}
		if params.Trace != "" {
			response.Trace = params.Trace
		}
	}

	errorCode := params.Code
	if params.Code == 0 {
		errorCode = fiber.StatusInternalServerError
	}
	return c.Status(errorCode).JSON(response)
}

// AppErrorResponse maps err onto the error envelope: apperror kinds keep
// their message and status, fiber errors keep their code, anything else is
// a 500 with a generic message.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	if e, ok := apperror.As(err); ok {
		params := ErrorResponseFormat{
			Code:    e.Kind.Status(),
			Message: e.Message,
		}
		if len(e.Fields) > 0 {
			params.Details = e.Fields
		}
		return ErrorResponse(c, params)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ErrorResponse(c, ErrorResponseFormat{Code: fe.Code, Message: fe.Message})
	}

	log.Printf("[http] %s %s: %v", c.Method(), c.Path(), err)
	return ErrorResponse(c, ErrorResponseFormat{
		Code:    fiber.StatusInternalServerError,
		Message: "Internal Server Error",
	}, err)
}
