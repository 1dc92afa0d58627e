package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/dto/response"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClientService interface {
	List(ctx context.Context, userID uuid.UUID, req *request.ListClientsRequest) (*response.PaginatedResponse[response.ClientResponse], error)
	// Create returns the owner's existing client with the same email instead of adding a duplicate.
	// created reports whether a new record was written.
	Create(ctx context.Context, userID uuid.UUID, req *request.ClientRequest) (resp *response.ClientResponse, created bool, err error)
	Get(ctx context.Context, userID, id uuid.UUID) (*response.ClientResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *request.ClientRequest) (*response.ClientResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	log        *zap.Logger
	now        func() time.Time
}

func NewClientService(clientRepo repository.ClientRepository, log *zap.Logger) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		log:        log.With(zap.String("service", "client")),
		now:        time.Now,
	}
}

func (s *clientService) List(ctx context.Context, userID uuid.UUID, req *request.ListClientsRequest) (*response.PaginatedResponse[response.ClientResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	search := strings.TrimSpace(req.Search)

	clients, err := s.clientRepo.FindAll(ctx, userID, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, storageError("list clients", err)
	}

	total, err := s.clientRepo.Count(ctx, userID, search)
	if err != nil {
		return nil, storageError("count clients", err)
	}

	data := make([]response.ClientResponse, 0, len(clients))
	for _, c := range clients {
		data = append(data, response.ClientToResponse(c))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *clientService) Create(ctx context.Context, userID uuid.UUID, req *request.ClientRequest) (*response.ClientResponse, bool, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, false, err
	}

	email := req.Email

	existing, err := s.clientRepo.FindByEmail(ctx, userID, email)
	if err != nil {
		return nil, false, storageError("find client", err)
	}
	if existing != nil {
		resp := response.ClientToResponse(existing)
		return &resp, false, nil
	}

	now := s.now()
	client := &entity.Client{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:  userID,
		Name:    strings.TrimSpace(req.Name),
		Email:   email,
		Phone:   req.Phone,
		Address: req.Address,
		GSTID:   req.GSTID,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, false, storageError("create client", err)
	}

	s.log.Info("Client created", zap.String("client_id", client.ID.String()), zap.String("user_id", userID.String()))

	resp := response.ClientToResponse(client)
	return &resp, true, nil
}

func (s *clientService) Get(ctx context.Context, userID, id uuid.UUID) (*response.ClientResponse, error) {
	client, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := response.ClientToResponse(client)
	return &resp, nil
}

func (s *clientService) Update(ctx context.Context, userID, id uuid.UUID, req *request.ClientRequest) (*response.ClientResponse, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	client, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	client.Name = strings.TrimSpace(req.Name)
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	client.GSTID = req.GSTID
	client.UpdatedAt = s.now()

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, storageError("update client", err)
	}

	resp := response.ClientToResponse(client)
	return &resp, nil
}

func (s *clientService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.clientRepo.Delete(ctx, userID, id)
	if err != nil {
		return storageError("delete client", err)
	}
	if !deleted {
		return fmt.Errorf("client not found: %w", ErrNotFound)
	}
	return nil
}

func (s *clientService) find(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storageError("find client", err)
	}
	if client == nil {
		return nil, fmt.Errorf("client not found: %w", ErrNotFound)
	}
	return client, nil
}
