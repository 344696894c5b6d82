// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics

import "net/http"

// ResponseRecorder wraps an http.ResponseWriter to capture the final status code.
type ResponseRecorder struct {
	http.ResponseWriter
	status int
}

// NewResponseRecorder defaults the status to 200 OK when WriteHeader is never called.
func NewResponseRecorder(writer http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: writer, status: http.StatusOK}
}

// Status returns the last status code written to the response.
func (recorder *ResponseRecorder) Status() int {
	return recorder.status
}

// WriteHeader captures the status code before delegating.
func (recorder *ResponseRecorder) WriteHeader(status int) {
	recorder.status = status
	recorder.ResponseWriter.WriteHeader(status)
}

// Flush flushes the response when the underlying writer supports it.
func (recorder *ResponseRecorder) Flush() {
	if flusher, ok := recorder.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (recorder *ResponseRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}
