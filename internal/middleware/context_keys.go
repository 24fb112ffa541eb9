package middleware

import "github.com/gin-gonic/gin"

// operatorIDKey is the key used to store the acting operator's ID in the Gin
// context. Authentication itself is handled upstream of this service; the
// operator ID arrives as a header and is used for audit fields only.
const operatorIDKey = contextKey("operatorID")

const operatorIDHeader = "X-Operator-ID"

// defaultOperatorID is recorded when no operator header is present.
const defaultOperatorID = "system"

// OperatorMiddleware copies the operator ID header into the Gin context.
func OperatorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := c.GetHeader(operatorIDHeader)
		if operatorID == "" {
			operatorID = defaultOperatorID
		}
		c.Set(string(operatorIDKey), operatorID)
		c.Next()
	}
}

// GetOperatorIDFromContext retrieves the acting operator ID from the Gin context.
func GetOperatorIDFromContext(c *gin.Context) string {
	val, exists := c.Get(string(operatorIDKey))
	if !exists {
		return defaultOperatorID
	}
	operatorID, ok := val.(string)
	if !ok || operatorID == "" {
		return defaultOperatorID
	}
	return operatorID
}
