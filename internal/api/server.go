// Package api exposes the application over HTTP as a JSON API.
package api

import (
	"github.com/mirzamitdinovs/vocab-master/internal/services"
	"github.com/mirzamitdinovs/vocab-master/internal/worker"
)

type Server struct {
	Users   services.UserService
	Catalog services.CatalogService
	Study   services.StudyService
	Imports services.ImportService

	// AudioPool runs text-to-speech backfill jobs; a nil pool or job
	// disables the trigger endpoint.
	AudioPool *worker.Pool
	AudioJob  worker.Job

	CORSOrigin string
}
