package handler

import (
	banddomain "gear-tracker-go/internal/domain/band"
	gigdomain "gear-tracker-go/internal/domain/gig"
	instrumentdomain "gear-tracker-go/internal/domain/instrument"
	userdomain "gear-tracker-go/internal/domain/user"
	"gear-tracker-go/internal/storage"
	"gear-tracker-go/pkg/logger"
)

type Handlers struct {
	Users       *userdomain.Service
	Bands       *banddomain.Service
	Instruments *instrumentdomain.Service
	Gigs        *gigdomain.Service
	images      storage.ImageStore
	log         logger.Logger
}

func New(users *userdomain.Service, bands *banddomain.Service, instruments *instrumentdomain.Service, gigs *gigdomain.Service, images storage.ImageStore, log logger.Logger) *Handlers {
	return &Handlers{
		Users:       users,
		Bands:       bands,
		Instruments: instruments,
		Gigs:        gigs,
		images:      images,
		log:         log,
	}
}
