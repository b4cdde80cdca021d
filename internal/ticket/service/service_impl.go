package service

import (
	"context"
	"time"

	"github.com/atendely/flowhook/internal/ticket/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ticket.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) OpenForExecution(ctx context.Context, req domain.OpenRequest) (*domain.Ticket, error) {
	now := time.Now().UTC()
	ticket := domain.Ticket{
		ID:              s.genID.Generate(),
		ContactID:       req.ContactID,
		ChannelID:       req.ChannelID,
		CompanyID:       req.CompanyID,
		Status:          domain.StatusOpen,
		FlowExecutionID: req.ExecutionID,
		FlowStopped:     domain.FlowNotStopped,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &ticket); err != nil {
		return nil, err
	}

	s.log.Info("ticket opened",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("execution_id", req.ExecutionID))

	return &ticket, nil
}
