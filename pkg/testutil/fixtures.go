package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccountFixture represents test account data
type AccountFixture struct {
	ID           string
	Email        string
	Password     string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{}
}

func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Account creates an account fixture whose password is "password123" unless overridden
func (f *FixtureFactory) Account(opts ...func(*AccountFixture)) AccountFixture {
	seq := f.nextSeq()

	account := AccountFixture{
		ID:        uuid.New().String(),
		Email:     fmt.Sprintf("user%d@test.resumekit.dev", seq),
		Password:  "password123",
		Name:      fmt.Sprintf("Test User %d", seq),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	for _, opt := range opts {
		opt(&account)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.MinCost)
	account.PasswordHash = string(hash)

	return account
}

// WithEmail sets the account email
func WithEmail(email string) func(*AccountFixture) {
	return func(a *AccountFixture) {
		a.Email = email
	}
}

// WithPassword sets the plain password the hash is derived from
func WithPassword(password string) func(*AccountFixture) {
	return func(a *AccountFixture) {
		a.Password = password
	}
}

// WithName sets the account display name
func WithName(name string) func(*AccountFixture) {
	return func(a *AccountFixture) {
		a.Name = name
	}
}

// SampleResume is a plain-text resume with a preamble and four headed sections
const SampleResume = `Ada Lovelace
ada@example.com

Experience
Analytical Engine Programmer, Babbage & Co
Wrote the first published algorithm

Education
University of London, Mathematics

Skills
Mathematics, Poetry

Projects
Bernoulli number notes
`
