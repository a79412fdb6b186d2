package check

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pulsewatch/pulsewatch/internal/authz"
	"github.com/pulsewatch/pulsewatch/internal/errs"
	"github.com/pulsewatch/pulsewatch/internal/random"
	"github.com/pulsewatch/pulsewatch/internal/storage"
)

// OwnerDirectory is the slice of the user directory the registry needs to
// keep the user/check link symmetric.
type OwnerDirectory interface {
	CheckIDs(ctx context.Context, identity string) ([]string, error)
	AttachCheck(ctx context.Context, identity, checkID string) error
	DetachCheck(ctx context.Context, identity, checkID string) error
}

// Registry owns check records: validation, quota, and the bidirectional
// link to the owning user.
type Registry struct {
	store      storage.Store
	owners     OwnerDirectory
	gate       *authz.Gate
	maxPerUser int

	// ownerMu serializes the read-check-create-append sequence (and the
	// delete counterpart) per owner so concurrent creates cannot both pass
	// the quota check against a stale snapshot. Process-local only.
	mu      sync.Mutex
	ownerMu map[string]*sync.Mutex
}

// NewRegistry builds a check registry enforcing maxPerUser checks per owner.
func NewRegistry(store storage.Store, owners OwnerDirectory, gate *authz.Gate, maxPerUser int) *Registry {
	return &Registry{
		store:      store,
		owners:     owners,
		gate:       gate,
		maxPerUser: maxPerUser,
		ownerMu:    make(map[string]*sync.Mutex),
	}
}

func (r *Registry) lockOwner(identity string) *sync.Mutex {
	r.mu.Lock()
	m, ok := r.ownerMu[identity]
	if !ok {
		m = &sync.Mutex{}
		r.ownerMu[identity] = m
	}
	r.mu.Unlock()
	m.Lock()
	return m
}

// Create validates spec, enforces the per-owner quota and persists a new
// check. The check record is written before the owner's list: a crash in
// between leaves an unreferenced check rather than a dangling reference.
func (r *Registry) Create(ctx context.Context, owner string, spec Spec) (Check, error) {
	if err := spec.validate(); err != nil {
		return Check{}, err
	}

	m := r.lockOwner(owner)
	defer m.Unlock()

	ids, err := r.owners.CheckIDs(ctx, owner)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Check{}, errs.ErrOwnerNotFound
		}
		return Check{}, err
	}
	if len(ids) >= r.maxPerUser {
		return Check{}, fmt.Errorf("%w: limit is %d", errs.ErrQuotaExceeded, r.maxPerUser)
	}

	id, err := random.ID()
	if err != nil {
		return Check{}, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	c := Check{
		ID:             id,
		OwnerIdentity:  owner,
		Protocol:       spec.Protocol,
		URL:            spec.URL,
		Method:         spec.Method,
		SuccessCodes:   spec.SuccessCodes,
		TimeoutSeconds: spec.TimeoutSeconds,
	}
	if err := r.persist(ctx, c, true); err != nil {
		return Check{}, err
	}
	if err := r.owners.AttachCheck(ctx, owner, id); err != nil {
		// The check record is durable at this point; the owner update
		// failure is surfaced, not rolled back.
		return Check{}, err
	}
	return c, nil
}

// Get returns the check if callerToken is valid for its owner.
func (r *Registry) Get(ctx context.Context, id, callerToken string) (Check, error) {
	c, err := r.load(ctx, id)
	if err != nil {
		return Check{}, err
	}
	if !r.gate.Authorize(ctx, callerToken, c.OwnerIdentity) {
		return Check{}, errs.ErrForbidden
	}
	return c, nil
}

// Update merges the supplied fields into the stored check after the same
// authorization check as Get.
func (r *Registry) Update(ctx context.Context, id, callerToken string, in UpdateInput) error {
	c, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	if !r.gate.Authorize(ctx, callerToken, c.OwnerIdentity) {
		return errs.ErrForbidden
	}
	if in.empty() {
		return errs.ErrNoFieldsProvided
	}
	if err := in.validate(); err != nil {
		return err
	}
	if in.Protocol != "" {
		c.Protocol = in.Protocol
	}
	if in.URL != "" {
		c.URL = in.URL
	}
	if in.Method != "" {
		c.Method = in.Method
	}
	if len(in.SuccessCodes) > 0 {
		c.SuccessCodes = in.SuccessCodes
	}
	if in.TimeoutSeconds != 0 {
		c.TimeoutSeconds = in.TimeoutSeconds
	}
	return r.persist(ctx, c, false)
}

// Delete removes the check and detaches it from its owner's list. A
// back-reference that was already gone surfaces as ErrOwnerUpdate.
func (r *Registry) Delete(ctx context.Context, id, callerToken string) error {
	c, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	if !r.gate.Authorize(ctx, callerToken, c.OwnerIdentity) {
		return errs.ErrForbidden
	}

	m := r.lockOwner(c.OwnerIdentity)
	defer m.Unlock()

	if err := r.store.Delete(ctx, storage.CollectionChecks, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.ErrNotFound
		}
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return r.owners.DetachCheck(ctx, c.OwnerIdentity, id)
}

// PurgeCheck deletes a check record without an authorization gate. Only
// the user-deletion cascade calls it; ownership is established there by
// the user record being removed.
func (r *Registry) PurgeCheck(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, storage.CollectionChecks, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.ErrNotFound
		}
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return nil
}

func (r *Registry) load(ctx context.Context, id string) (Check, error) {
	record, err := r.store.Read(ctx, storage.CollectionChecks, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Check{}, errs.ErrNotFound
		}
		return Check{}, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	var c Check
	if err := json.Unmarshal(record, &c); err != nil {
		return Check{}, fmt.Errorf("%w: decode check %s: %v", errs.ErrStorage, id, err)
	}
	return c, nil
}

func (r *Registry) persist(ctx context.Context, c Check, create bool) error {
	record, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: encode check: %v", errs.ErrStorage, err)
	}
	if create {
		err = r.store.Create(ctx, storage.CollectionChecks, c.ID, record)
	} else {
		err = r.store.Update(ctx, storage.CollectionChecks, c.ID, record)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.ErrNotFound
		}
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return nil
}
