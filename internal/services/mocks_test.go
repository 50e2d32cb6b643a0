package services

import (
	"context"
	"sync"

	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type mockUserRepo struct {
	createFn          func(ctx context.Context, user *models.User) error
	findByEmailFn     func(ctx context.Context, email string) (*models.User, error)
	findByIDFn        func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	updateLastLoginFn func(ctx context.Context, id primitive.ObjectID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = primitive.NewObjectID()
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

type mockMemberRepo struct {
	createFn       func(ctx context.Context, member *models.Member) error
	findByIDFn     func(ctx context.Context, id primitive.ObjectID) (*models.Member, error)
	findByUserIDFn func(ctx context.Context, userID primitive.ObjectID) (*models.Member, error)
	updateFn       func(ctx context.Context, member *models.Member) error
	findAllFn      func(ctx context.Context, status models.MemberStatus, page, limit int) ([]*models.Member, int64, error)
}

func (m *mockMemberRepo) Create(ctx context.Context, member *models.Member) error {
	if m.createFn != nil {
		return m.createFn(ctx, member)
	}
	member.ID = primitive.NewObjectID()
	return nil
}

func (m *mockMemberRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockMemberRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Member, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockMemberRepo) Update(ctx context.Context, member *models.Member) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, member)
	}
	return nil
}

func (m *mockMemberRepo) FindAll(ctx context.Context, status models.MemberStatus, page, limit int) ([]*models.Member, int64, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, status, page, limit)
	}
	return []*models.Member{}, 0, nil
}

type mockContributionRepo struct {
	mu        sync.Mutex
	created   []*models.WasteContribution
	createFn  func(ctx context.Context, c *models.WasteContribution) error
	findFn    func(ctx context.Context, f repositories.ContributionFilter) ([]*models.WasteContribution, int64, error)
	findAllFn func(ctx context.Context, memberID primitive.ObjectID) ([]*models.WasteContribution, error)
}

func (m *mockContributionRepo) Create(ctx context.Context, c *models.WasteContribution) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, c); err != nil {
			return err
		}
	}
	c.ID = primitive.NewObjectID()
	m.mu.Lock()
	m.created = append(m.created, c)
	m.mu.Unlock()
	return nil
}

func (m *mockContributionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.WasteContribution, error) {
	for _, c := range m.created {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockContributionRepo) FindByMember(ctx context.Context, f repositories.ContributionFilter) ([]*models.WasteContribution, int64, error) {
	if m.findFn != nil {
		return m.findFn(ctx, f)
	}
	return []*models.WasteContribution{}, 0, nil
}

func (m *mockContributionRepo) FindAllByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]*models.WasteContribution, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, memberID)
	}
	return m.created, nil
}

type mockPickupRepo struct {
	createFn   func(ctx context.Context, p *models.PickupRequest) error
	findByIDFn func(ctx context.Context, id primitive.ObjectID) (*models.PickupRequest, error)
	updateFn   func(ctx context.Context, p *models.PickupRequest, expected models.PickupStatus) error
	findFn     func(ctx context.Context, f repositories.PickupRequestFilter) ([]*models.PickupRequest, int64, error)
}

func (m *mockPickupRepo) Create(ctx context.Context, p *models.PickupRequest) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = primitive.NewObjectID()
	return nil
}

func (m *mockPickupRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PickupRequest, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockPickupRepo) Update(ctx context.Context, p *models.PickupRequest, expected models.PickupStatus) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p, expected)
	}
	return nil
}

func (m *mockPickupRepo) FindByMember(ctx context.Context, f repositories.PickupRequestFilter) ([]*models.PickupRequest, int64, error) {
	if m.findFn != nil {
		return m.findFn(ctx, f)
	}
	return []*models.PickupRequest{}, 0, nil
}

type mockPointRepo struct {
	mu         sync.Mutex
	created    []*models.PointTransaction
	createFn   func(ctx context.Context, tx *models.PointTransaction) error
	findFn     func(ctx context.Context, memberID primitive.ObjectID) ([]*models.PointTransaction, error)
	findPageFn func(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*models.PointTransaction, int64, error)
}

func (m *mockPointRepo) Create(ctx context.Context, tx *models.PointTransaction) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, tx); err != nil {
			return err
		}
	}
	tx.ID = primitive.NewObjectID()
	m.mu.Lock()
	m.created = append(m.created, tx)
	m.mu.Unlock()
	return nil
}

func (m *mockPointRepo) FindByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]*models.PointTransaction, error) {
	if m.findFn != nil {
		return m.findFn(ctx, memberID)
	}
	return m.created, nil
}

func (m *mockPointRepo) FindPageByMemberID(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*models.PointTransaction, int64, error) {
	if m.findPageFn != nil {
		return m.findPageFn(ctx, memberID, page, limit)
	}
	return m.created, int64(len(m.created)), nil
}

type mockNotificationRepo struct {
	mu       sync.Mutex
	created  []*models.Notification
	createFn func(ctx context.Context, n *models.Notification) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, n); err != nil {
			return err
		}
	}
	n.ID = primitive.NewObjectID()
	m.mu.Lock()
	m.created = append(m.created, n)
	m.mu.Unlock()
	return nil
}

func (m *mockNotificationRepo) FindByMemberID(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*models.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, n := range m.created {
		if n.MemberID != nil && *n.MemberID == memberID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

type sentNotification struct {
	Member *models.Member
	Type   models.NotificationType
	Data   map[string]interface{}
}

// recordingNotifier captures Notify calls synchronously.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(member *models.Member, t models.NotificationType, data map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{Member: member, Type: t, Data: data})
}

func (r *recordingNotifier) types() []models.NotificationType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.NotificationType, 0, len(r.sent))
	for _, s := range r.sent {
		out = append(out, s.Type)
	}
	return out
}

func activeMember() *models.Member {
	return &models.Member{
		ID:         primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		KoperasiID: "kop-sejahtera",
		FullName:   "Siti Aminah",
		Phone:      "6281234567890",
		Status:     models.MemberStatusActive,
	}
}
