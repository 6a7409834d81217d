package api

import "github.com/gin-gonic/gin"

// errorBody is the JSON error envelope: the 404 body is
// {"error":"not found"}; BadRequest responses use the same single-field
// shape, with the param name folded into the message.
type errorBody struct {
	Error string `json:"error"`
}

func sendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, errorBody{Error: message})
}
