package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/commonground/community-events-api/internal/models"
	"github.com/commonground/community-events-api/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Join{}); err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}
	return db
}

func newEventService(t *testing.T, db *gorm.DB, validateDateOnUpdate bool) (*EventService, string) {
	t.Helper()

	dir := t.TempDir()
	images, err := storage.NewImageStore(dir)
	if err != nil {
		t.Fatalf("failed to create image store: %v", err)
	}
	return NewEventService(db, images, nil, validateDateOnUpdate), dir
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{Username: "host", Email: email, Role: "user"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func validParams(ownerID uint, code string) CreateEventParams {
	return CreateEventParams{
		Name:        "Beach Cleanup",
		Code:        code,
		Date:        time.Now().Add(24 * time.Hour),
		Location:    "Pier",
		Description: "Bring gloves",
		Category:    "Cleaning",
		OwnerID:     ownerID,
	}
}

func fakeImage() *bytes.Reader {
	return bytes.NewReader([]byte("fake image bytes"))
}

func strPtr(s string) *string { return &s }

func TestCreateAndGetEvent(t *testing.T) {
	db := newTestDB(t)
	svc, dir := newEventService(t, db, false)
	user := seedUser(t, db, "host@example.com")
	ctx := context.Background()

	event, err := svc.Create(ctx, validParams(user.ID, "ABCD1234"), fakeImage(), "beach.jpg")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if event.ID == 0 {
		t.Fatal("expected created event to have an ID")
	}
	if event.UserID != user.ID {
		t.Errorf("expected owner %d, got %d", user.ID, event.UserID)
	}
	if !strings.HasPrefix(event.Image, "uploads/events/") {
		t.Errorf("expected image path under uploads/events, got %q", event.Image)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.Base(event.Image))); err != nil {
		t.Errorf("expected image file on disk: %v", err)
	}

	byID, err := svc.GetByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if byID.Code != "ABCD1234" || byID.Name != "Beach Cleanup" {
		t.Errorf("GetByID returned unexpected event: %+v", byID)
	}

	byCode, err := svc.GetByCode(ctx, "ABCD1234")
	if err != nil {
		t.Fatalf("GetByCode returned error: %v", err)
	}
	if byCode.ID != event.ID {
		t.Errorf("GetByCode returned event %d, expected %d", byCode.ID, event.ID)
	}
}

func TestCreateEventDuplicateCode(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEventService(t, db, false)
	user := seedUser(t, db, "host@example.com")
	ctx := context.Background()

	if _, err := svc.Create(ctx, validParams(user.ID, "ABCD1234"), fakeImage(), "a.jpg"); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	_, err := svc.Create(ctx, validParams(user.ID, "ABCD1234"), fakeImage(), "b.jpg")
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError for duplicate code, got %v", err)
	}
}

func TestCreateEventValidation(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEventService(t, db, false)
	user := seedUser(t, db, "host@example.com")
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*CreateEventParams)
		noImage bool
	}{
		{name: "past date", mutate: func(p *CreateEventParams) { p.Date = time.Now().Add(-time.Hour) }},
		{name: "unknown category", mutate: func(p *CreateEventParams) { p.Category = "Knitting" }},
		{name: "short code", mutate: func(p *CreateEventParams) { p.Code = "ABC" }},
		{name: "missing name", mutate: func(p *CreateEventParams) { p.Name = "" }},
		{name: "name too long", mutate: func(p *CreateEventParams) { p.Name = strings.Repeat("a", 101) }},
		{name: "missing location", mutate: func(p *CreateEventParams) { p.Location = "" }},
		{name: "location too long", mutate: func(p *CreateEventParams) { p.Location = strings.Repeat("a", 201) }},
		{name: "description too long", mutate: func(p *CreateEventParams) { p.Description = strings.Repeat("a", 1001) }},
		{name: "missing image", mutate: func(p *CreateEventParams) {}, noImage: true},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams(user.ID, fmt.Sprintf("CODE%04d", i))
			tc.mutate(&params)

			var image *bytes.Reader
			if !tc.noImage {
				image = fakeImage()
			}

			var err error
			if image == nil {
				_, err = svc.Create(ctx, params, nil, "")
			} else {
				_, err = svc.Create(ctx, params, image, "event.jpg")
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateEventOwnerMissing(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEventService(t, db, false)
	ctx := context.Background()

	_, err := svc.Create(ctx, validParams(999, "ABCD1234"), fakeImage(), "a.jpg")
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError for missing owner, got %v", err)
	}
}

func TestListOrdersByDate(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEventService(t, db, false)
	host := seedUser(t, db, "host@example.com")
	other := seedUser(t, db, "other@example.com")
	ctx := context.Background()

	for i, offset := range []time.Duration{72 * time.Hour, 24 * time.Hour, 48 * time.Hour} {
		params := validParams(host.ID, fmt.Sprintf("HOST%04d", i))
		params.Date = time.Now().Add(offset)
		if _, err := svc.Create(ctx, params, fakeImage(), "a.jpg"); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}
	otherParams := validParams(other.ID, "OTHR0000")
	if _, err := svc.Create(ctx, otherParams, fakeImage(), "a.jpg"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	events, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Date.Before(events[i-1].Date) {
			t.Errorf("events not ordered by date ascending at index %d", i)
		}
	}

	owned, err := svc.ListByOwner(ctx, host.ID)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(owned) != 3 {
		t.Errorf("expected 3 events for host, got %d", len(owned))
	}
	for _, e := range owned {
		if e.UserID != host.ID {
			t.Errorf("ListByOwner returned event owned by %d", e.UserID)
		}
	}
}

func TestUpdateEventFields(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEventService(t, db, false)
	user := seedUser(t, db, "host@example.com")
	ctx := context.Background()

	event, err := svc.Create(ctx, validParams(user.ID, "ABCD1234"), fakeImage(), "a.jpg")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(ctx, event.ID, UpdateEventParams{Name: strPtr("Harbor Cleanup")}, nil, "")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Harbor Cleanup" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.Code != "ABCD1234" || updated.Location != "Pier" {
		t.Errorf("unchanged fields were modified: %+v", updated)
	}

	// Date re-validation is off, so moving an event into the past is allowed.
	past := time.Now().Add(-48 * time.Hour)
	if _, err := svc.Update(ctx, event.ID, UpdateEventParams{Date: &past}, nil, ""); err != nil {
		t.Errorf("expected past date to be accepted with validation off, got %v", err)
	}

	badCategory := "Knitting"
	_, err = svc.Update(ctx, event.ID, UpdateEventParams{Category: &badCategory}, nil, "")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError for bad category on update, got %v", err)
	}
}

func TestUpdateEventDateValidationEnabled(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEventService(t, db, true)
	user := seedUser(t, db, "host@example.com")
	ctx := context.Background()

	event, err := svc.Create(ctx, validParams(user.ID, "ABCD1234"), fakeImage(), "a.jpg")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	_, err = svc.Update(ctx, event.ID, UpdateEventParams{Date: &past}, nil, "")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for past date with validation on, got %v", err)
	}
}

func TestUpdateEventReplacesImage(t *testing.T) {
	db := newTestDB(t)
	svc, dir := newEventService(t, db, false)
	user := seedUser(t, db, "host@example.com")
	ctx := context.Background()

	event, err := svc.Create(ctx, validParams(user.ID, "ABCD1234"), fakeImage(), "old.jpg")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	oldImage := event.Image

	updated, err := svc.Update(ctx, event.ID, UpdateEventParams{}, bytes.NewReader([]byte("new image")), "new.png")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Image == oldImage {
		t.Fatal("expected image path to change after replacement")
	}

	if _, err := os.Stat(filepath.Join(dir, filepath.Base(oldImage))); !os.IsNotExist(err) {
		t.Errorf("expected old image file to be removed, stat err: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.Base(updated.Image))); err != nil {
		t.Errorf("expected new image file on disk: %v", err)
	}
}

func TestUpdateEventNotFound(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEventService(t, db, false)

	_, err := svc.Update(context.Background(), 999, UpdateEventParams{Name: strPtr("x")}, nil, "")
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	db := newTestDB(t)
	svc, dir := newEventService(t, db, false)
	user := seedUser(t, db, "host@example.com")
	ctx := context.Background()

	event, err := svc.Create(ctx, validParams(user.ID, "ABCD1234"), fakeImage(), "a.jpg")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(ctx, event.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, filepath.Base(event.Image))); !os.IsNotExist(err) {
		t.Errorf("expected image file to be removed, stat err: %v", err)
	}

	var notFoundErr *NotFoundError
	if _, err := svc.GetByID(ctx, event.ID); !errors.As(err, &notFoundErr) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}
	if err := svc.Delete(ctx, event.ID); !errors.As(err, &notFoundErr) {
		t.Errorf("expected NotFoundError deleting twice, got %v", err)
	}
}
