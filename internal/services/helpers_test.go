package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rolo-dev/rolo/db"
	"github.com/rolo-dev/rolo/internal/auth"
	"github.com/rolo-dev/rolo/internal/mailer"
	"github.com/rolo-dev/rolo/internal/models"
	"github.com/rolo-dev/rolo/internal/realtime"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.Connect("sqlite", "file:"+name+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, db.MigrateDatabase(conn))

	t.Cleanup(func() {
		sqlDB, _ := conn.DB()
		sqlDB.Close()
	})

	return conn
}

type mailRecorder struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *mailRecorder) Enqueue(msg mailer.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return true
}

func (m *mailRecorder) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

type publishRecorder struct {
	mu     sync.Mutex
	events map[uint][]realtime.Event
}

func (p *publishRecorder) Publish(userID uint, ev realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = map[uint][]realtime.Event{}
	}
	p.events[userID] = append(p.events[userID], ev)
}

func (p *publishRecorder) count(userID uint) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events[userID])
}

func testTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	tokens, err := auth.NewTokens("test-secret")
	require.NoError(t, err)
	return tokens
}

func createUser(t *testing.T, conn *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	u := &models.User{FirstName: "Test", LastName: "User", Email: email, Password: hash, Role: role}
	require.NoError(t, conn.Create(u).Error)
	return u
}

func createCategory(t *testing.T, conn *gorm.DB) *models.Category {
	t.Helper()
	c := &models.Category{Name: "Handicrafts"}
	require.NoError(t, conn.Create(c).Error)
	return c
}

func createProduct(t *testing.T, conn *gorm.DB, name string, qty int, price float64) *models.Product {
	t.Helper()

	c := createCategory(t, conn)
	p := &models.Product{
		Name:          name,
		Description:   name + " description",
		Price:         price,
		OriginalPrice: price,
		Quantity:      qty,
		Filepath:      "uploads/image-test.png",
		CategoryID:    c.ID,
	}
	require.NoError(t, conn.Create(p).Error)
	return p
}

func stockOf(t *testing.T, conn *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, conn.Unscoped().First(&p, id).Error)
	return p.Quantity
}

var bg = context.Background()
