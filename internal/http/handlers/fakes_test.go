package handlers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"chathub/internal/domain"
	"chathub/internal/providers/chat"
	"chathub/internal/usage"
)

// In-memory repositories for handler tests. memUserRepo mirrors the SQL
// rollover contract of IncrementDailyUsage.
type memUserRepo struct {
	users map[string]*domain.User
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *memUserRepo) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	if existing, ok := r.users[user.ID]; ok {
		existing.Email = user.Email
		existing.FirstName = user.FirstName
		existing.LastName = user.LastName
		existing.ProfileImageURL = user.ProfileImageURL
		u := *existing
		return &u, nil
	}
	stored := *user
	if stored.Role == "" {
		stored.Role = domain.UserRoleUser
	}
	stored.LastUsageReset = time.Now()
	r.users[user.ID] = &stored
	u := stored
	return &u, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *memUserRepo) UpdateRole(ctx context.Context, id string, role domain.UserRole, vipExpiresAt *time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.Role = role
	user.VIPExpiresAt = vipExpiresAt
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) IncrementDailyUsage(ctx context.Context, id string) error {
	user, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if user.LastUsageReset.Before(dayStart) {
		user.DailyUsage = 1
		user.LastUsageReset = now
	} else {
		user.DailyUsage++
	}
	return nil
}

type memModelRepo struct {
	models map[int64]domain.ChatModel
}

func newMemModelRepo(models ...domain.ChatModel) *memModelRepo {
	repo := &memModelRepo{models: make(map[int64]domain.ChatModel)}
	for _, m := range models {
		repo.models[m.ID] = m
	}
	return repo
}

func (r *memModelRepo) List(ctx context.Context) ([]domain.ChatModel, error) {
	out := make([]domain.ChatModel, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	return out, nil
}

func (r *memModelRepo) ListActive(ctx context.Context) ([]domain.ChatModel, error) {
	out := make([]domain.ChatModel, 0, len(r.models))
	for _, m := range r.models {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memModelRepo) GetByID(ctx context.Context, id int64) (*domain.ChatModel, error) {
	m, ok := r.models[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *memModelRepo) EnsureDefaults(ctx context.Context) error { return nil }

type memConversationRepo struct {
	conversations map[int64]*domain.Conversation
	messages      map[int64][]domain.Message
	nextConvID    int64
	nextMsgID     int64
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{
		conversations: make(map[int64]*domain.Conversation),
		messages:      make(map[int64][]domain.Message),
	}
}

func (r *memConversationRepo) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	r.nextConvID++
	stored := *conv
	stored.ID = r.nextConvID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.conversations[stored.ID] = &stored
	c := stored
	return &c, nil
}

func (r *memConversationRepo) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	conv, ok := r.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *conv
	return &c, nil
}

func (r *memConversationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	for _, conv := range r.conversations {
		if conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (r *memConversationRepo) Messages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	return append([]domain.Message(nil), r.messages[conversationID]...), nil
}

func (r *memConversationRepo) AddMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	conv, ok := r.conversations[msg.ConversationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.nextMsgID++
	stored := *msg
	stored.ID = r.nextMsgID
	stored.CreatedAt = time.Now()
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], stored)
	conv.UpdatedAt = stored.CreatedAt
	m := stored
	return &m, nil
}

type memStatRepo struct {
	counts map[string]int64
}

func newMemStatRepo() *memStatRepo {
	return &memStatRepo{counts: make(map[string]int64)}
}

func (r *memStatRepo) Increment(ctx context.Context, userID string, modelID int64) error {
	r.counts[userID]++
	return nil
}

func (r *memStatRepo) TodayCalls(ctx context.Context) (int64, error) {
	var total int64
	for _, c := range r.counts {
		total += c
	}
	return total, nil
}

// stubChat returns a fixed response and records dispatch calls.
type stubChat struct {
	response chat.Response
	calls    int
}

func (s *stubChat) Dispatch(ctx context.Context, model domain.ChatModel, history []chat.Message) chat.Response {
	s.calls++
	return s.response
}

type testEnv struct {
	app           *App
	users         *memUserRepo
	models        *memModelRepo
	conversations *memConversationRepo
	stats         *memStatRepo
	chat          *stubChat
}

func newTestEnv(chatResp chat.Response, users ...*domain.User) *testEnv {
	userRepo := newMemUserRepo(users...)
	modelRepo := newMemModelRepo()
	convRepo := newMemConversationRepo()
	statRepo := newMemStatRepo()
	chatStub := &stubChat{response: chatResp}
	return &testEnv{
		app: &App{
			Users:         userRepo,
			Models:        modelRepo,
			Conversations: convRepo,
			Accountant:    usage.NewAccountant(userRepo, statRepo, 10),
			Chat:          chatStub,
			Logger:        zerolog.Nop(),
		},
		users:         userRepo,
		models:        modelRepo,
		conversations: convRepo,
		stats:         statRepo,
		chat:          chatStub,
	}
}
