// Package httpx holds the JSON response helpers shared by all handlers:
// the {message} envelope, the 422 validation body and the 500/404 shapes.
package httpx

import (
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report field names by json tag so error bodies match the wire names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// Message writes a plain {message} body
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// NotFound writes the standard 404 body for an entity
func NotFound(c *gin.Context, entity string) {
	c.JSON(http.StatusNotFound, gin.H{"message": entity + " not found"})
}

// DBError logs a storage failure and writes the generic 500 body
func DBError(c *gin.Context, op string, err error) {
	log.Printf("Error %s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
}

// FieldError writes a 422 body for a single invalid field
func FieldError(c *gin.Context, field, msg string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": msg,
		"errors":  gin.H{field: []string{msg}},
	})
}

// BindError translates a ShouldBindJSON failure into the 422 body,
// with per-field messages when the failure came from validation tags
func BindError(c *gin.Context, err error) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid request body"})
		return
	}

	errors := make(map[string][]string, len(verrs))
	var first string
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		if first == "" {
			first = msg
		}
		errors[fe.Field()] = append(errors[fe.Field()], msg)
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": first,
		"errors":  errors,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", fe.Field())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s does not match.", fe.Field())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("The %s may not be greater than %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", fe.Field())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}
