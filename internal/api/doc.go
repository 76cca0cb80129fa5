// Package api contains the HTTP handlers, request/response models, and
// error mapping for the task API's REST surface.
package api
