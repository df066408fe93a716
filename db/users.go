package db

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Roles a user can sign up with. Anything else is tolerated on read and
// lands the user on the info page after login.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// UserRecord is the stored per-user account data. The password is kept as a
// bcrypt hash; the JSON key stays "password" for compatibility with documents
// written by earlier versions of the app.
type UserRecord struct {
	PasswordHash string `json:"password"`
	Role         string `json:"role"`
}

// UsersTable maps username to account record
type UsersTable map[string]UserRecord

// UsersDB wraps the users bucket. Usernames are case-sensitive and trimmed
// by the account service before they reach this layer.
type UsersDB struct {
	store *BucketStore
	mu    sync.Mutex
}

func NewUsersDB(store *BucketStore) *UsersDB {
	return &UsersDB{store: store}
}

func (udb *UsersDB) load() UsersTable {
	table := UsersTable{}
	udb.store.Load(UsersBucket, &table)
	return table
}

// Upsert writes (or silently overwrites) the record for username and
// persists the whole users bucket
func (udb *UsersDB) Upsert(username string, rec UserRecord) error {
	udb.mu.Lock()
	defer udb.mu.Unlock()

	table := udb.load()
	table[username] = rec
	return udb.store.Save(UsersBucket, table)
}

// Find returns the stored record for username
func (udb *UsersDB) Find(username string) (UserRecord, bool) {
	udb.mu.Lock()
	defer udb.mu.Unlock()

	rec, ok := udb.load()[username]
	return rec, ok
}

// ValidateCredentials reports whether username exists and password matches
// its stored hash
func (udb *UsersDB) ValidateCredentials(username, password string) bool {
	rec, ok := udb.Find(username)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) == nil
}

// AllUsernames returns every known username, sorted
func (udb *UsersDB) AllUsernames() []string {
	udb.mu.Lock()
	defer udb.mu.Unlock()

	table := udb.load()
	usernames := make([]string, 0, len(table))
	for username := range table {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	return usernames
}

// NormalizeRole maps arbitrary input to a stored role, defaulting to buyer
func NormalizeRole(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return RoleBuyer
	}
	return role
}
