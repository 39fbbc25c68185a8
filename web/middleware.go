// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the request identifier both ways.
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "request_id"

// requestID tags each request with a UUID, reusing the caller's one when it
// is a valid UUID.
func requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		ctx.Set(requestIDKey, id)
		ctx.Header(HeaderRequestID, id)
		ctx.Next()
	}
}

// RequestID returns the identifier assigned by the middleware.
func RequestID(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}
