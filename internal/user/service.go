package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pulsewatch/pulsewatch/internal/errs"
	"github.com/pulsewatch/pulsewatch/internal/hashing"
	"github.com/pulsewatch/pulsewatch/internal/storage"
)

// CheckPurger deletes a check record without an authorization gate. It is
// exercised only by the deletion cascade, where ownership is already
// established by the user record being deleted.
type CheckPurger interface {
	PurgeCheck(ctx context.Context, checkID string) error
}

// Directory owns user records: registration, profile reads and updates,
// and account deletion with its cascade to owned checks.
type Directory struct {
	store  storage.Store
	hasher hashing.Hasher
	purger CheckPurger
}

// NewDirectory builds a user directory. The check purger is bound later
// via UseCheckPurger because the registry and directory reference each
// other.
func NewDirectory(store storage.Store, hasher hashing.Hasher) *Directory {
	return &Directory{store: store, hasher: hasher}
}

// UseCheckPurger wires the cascade target. Must be called before Delete.
func (d *Directory) UseCheckPurger(p CheckPurger) {
	d.purger = p
}

// Create registers a new user with an empty check list. The identity is
// chosen by the caller and must be globally unique.
func (d *Directory) Create(ctx context.Context, in CreateInput) error {
	if len(in.Identity) != IdentityLength {
		return errs.Validation("identity", fmt.Sprintf("must be %d characters", IdentityLength))
	}
	if in.FirstName == "" {
		return errs.Validation("firstName", "is required")
	}
	if in.LastName == "" {
		return errs.Validation("lastName", "is required")
	}
	if in.Password == "" {
		return errs.Validation("password", "is required")
	}
	if !in.AgreedToTerms {
		return errs.Validation("agreedToTerms", "must be accepted")
	}

	// Existence pre-check mirrors the store read the original system did;
	// the store's atomic create is the real uniqueness guard.
	if _, err := d.load(ctx, in.Identity); err == nil {
		return errs.ErrAlreadyExists
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	digest, err := d.hasher.Digest(in.Password)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrHashing, err)
	}

	u := User{
		Identity:       in.Identity,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PasswordDigest: digest,
		CheckIDs:       []string{},
		AgreedToTerms:  true,
	}
	return d.create(ctx, u)
}

// Get returns the user's profile. The password digest is never part of
// the projection.
func (d *Directory) Get(ctx context.Context, identity string) (User, error) {
	u, err := d.load(ctx, identity)
	if err != nil {
		return User{}, err
	}
	u.PasswordDigest = ""
	return u, nil
}

// Update merges the supplied optional fields into the stored record. At
// least one field must be provided.
func (d *Directory) Update(ctx context.Context, identity string, in UpdateInput) error {
	if in.empty() {
		return errs.ErrNoFieldsProvided
	}
	u, err := d.load(ctx, identity)
	if err != nil {
		return err
	}
	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		u.LastName = in.LastName
	}
	if in.Password != "" {
		digest, err := d.hasher.Digest(in.Password)
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrHashing, err)
		}
		u.PasswordDigest = digest
	}
	return d.update(ctx, u)
}

// Delete removes the user record and then best-effort deletes every owned
// check. The user is gone even when parts of the cascade fail; in that
// case the surviving check ids are reported in a PartialCascadeError so
// they can be reconciled by hand.
func (d *Directory) Delete(ctx context.Context, identity string) error {
	u, err := d.load(ctx, identity)
	if err != nil {
		return err
	}
	if err := d.store.Delete(ctx, storage.CollectionUsers, identity); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.ErrNotFound
		}
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	if len(u.CheckIDs) == 0 {
		return nil
	}

	var (
		mu     sync.Mutex
		failed []string
		wg     sync.WaitGroup
	)
	for _, checkID := range u.CheckIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := d.purger.PurgeCheck(ctx, id); err != nil {
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
			}
		}(checkID)
	}
	wg.Wait()

	if len(failed) > 0 {
		return &errs.PartialCascadeError{FailedIDs: failed}
	}
	return nil
}

// DigestOf exposes the stored password digest to the token authority.
func (d *Directory) DigestOf(ctx context.Context, identity string) (string, error) {
	u, err := d.load(ctx, identity)
	if err != nil {
		return "", err
	}
	return u.PasswordDigest, nil
}

// CheckIDs returns the user's current check list.
func (d *Directory) CheckIDs(ctx context.Context, identity string) ([]string, error) {
	u, err := d.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	return u.CheckIDs, nil
}

// AttachCheck appends a check id to the user's list and persists it.
func (d *Directory) AttachCheck(ctx context.Context, identity, checkID string) error {
	u, err := d.load(ctx, identity)
	if err != nil {
		return err
	}
	u.CheckIDs = append(u.CheckIDs, checkID)
	return d.update(ctx, u)
}

// DetachCheck removes a check id from the user's list. A missing entry or
// a missing user means the back-reference was already broken before this
// call, which is reported as ErrOwnerUpdate rather than a plain not-found.
func (d *Directory) DetachCheck(ctx context.Context, identity, checkID string) error {
	u, err := d.load(ctx, identity)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: owner %s is gone", errs.ErrOwnerUpdate, identity)
		}
		return err
	}
	kept := u.CheckIDs[:0]
	found := false
	for _, id := range u.CheckIDs {
		if id == checkID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if !found {
		return fmt.Errorf("%w: check %s not listed on owner %s", errs.ErrOwnerUpdate, checkID, identity)
	}
	u.CheckIDs = kept
	return d.update(ctx, u)
}

func (d *Directory) load(ctx context.Context, identity string) (User, error) {
	record, err := d.store.Read(ctx, storage.CollectionUsers, identity)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return User{}, errs.ErrNotFound
		}
		return User{}, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	var u User
	if err := json.Unmarshal(record, &u); err != nil {
		return User{}, fmt.Errorf("%w: decode user %s: %v", errs.ErrStorage, identity, err)
	}
	return u, nil
}

func (d *Directory) create(ctx context.Context, u User) error {
	record, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("%w: encode user: %v", errs.ErrStorage, err)
	}
	if err := d.store.Create(ctx, storage.CollectionUsers, u.Identity, record); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return errs.ErrAlreadyExists
		}
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return nil
}

func (d *Directory) update(ctx context.Context, u User) error {
	record, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("%w: encode user: %v", errs.ErrStorage, err)
	}
	if err := d.store.Update(ctx, storage.CollectionUsers, u.Identity, record); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.ErrNotFound
		}
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return nil
}
