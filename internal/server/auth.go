package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = errors.New("invalid credentials")

// bcryptCost is lowered in tests.
var bcryptCost = bcrypt.DefaultCost

const maxUsernameLen = 150

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// validUsername rejects names that could not appear in a puzzle URL.
func validUsername(username string) bool {
	return username != "" &&
		len(username) <= maxUsernameLen &&
		username != "latest" &&
		strings.TrimSpace(username) == username &&
		!strings.ContainsAny(username, "/?#")
}

// authenticate checks a username and password against the stored hash.
func authenticate(ctx context.Context, store Store, username, password string) (Author, error) {
	a, err := store.AuthorByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return Author{}, errBadCredentials
	}
	if err != nil {
		return Author{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return Author{}, errBadCredentials
	}
	return a, nil
}

// authenticateOrRegister creates the author on first use, otherwise it
// behaves like authenticate.
func authenticateOrRegister(ctx context.Context, store Store, username, password string) (Author, error) {
	_, err := store.AuthorByUsername(ctx, username)
	if err == nil {
		return authenticate(ctx, store, username, password)
	}
	if !errors.Is(err, ErrNotFound) {
		return Author{}, err
	}
	if !validUsername(username) || password == "" {
		return Author{}, errBadCredentials
	}

	hash, err := hashPassword(password)
	if err != nil {
		return Author{}, err
	}
	a, err := store.CreateAuthor(ctx, username, hash, false)
	if errors.Is(err, ErrUsernameTaken) {
		// Lost a race with another registration.
		return authenticate(ctx, store, username, password)
	}
	return a, err
}
