// Package service provides the core pipeline service.
package service

import (
	"github.com/nanavatisneha/analytics-handbook/internal/adapters/repository"
	"github.com/nanavatisneha/analytics-handbook/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the data source the pipeline fetches from.
func WithSource(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithStore sets the storage sink. Defaults to the in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCompetition selects the competition/season pair to ingest.
func WithCompetition(competitionID, seasonID int) Option {
	return func(s *Service) {
		s.competitionID = competitionID
		s.seasonID = seasonID
	}
}

// WithEventsTable names the relation the flattened table loads into.
func WithEventsTable(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.eventsTable = name
		}
	}
}

// WithDropColumns sets the columns removed during flattening.
func WithDropColumns(names []string) Option {
	return func(s *Service) {
		s.dropColumns = names
	}
}

// WithStrictCoordinates makes malformed positional arrays fatal.
func WithStrictCoordinates(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithWorkerCount sets the number of fetch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the fetch queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the ingested-id cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}
