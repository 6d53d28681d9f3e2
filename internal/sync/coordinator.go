// Package sync coordinates the durable local stores with the remote
// document store. Writes land in local storage first and are mirrored
// to the remote asynchronously; remote changes stream back in and
// overwrite local state. Local reads keep working when the remote is
// unreachable.
package sync

import (
	"context"
	stderrors "errors"
	"log"
	gosync "sync"
	"sync/atomic"
	"time"

	"pantrypal/internal/errors"
	"pantrypal/internal/model"
	"pantrypal/internal/outcome"
	"pantrypal/internal/remote"
	"pantrypal/internal/store"
)

// Kind names a synchronized collection under a user's namespace.
type Kind string

const (
	KindPantryItems Kind = "pantryItems"
	KindProfile     Kind = "users"
	KindFavorites   Kind = "favorites"
	KindMealPlans   Kind = "mealPlans"
)

var allKinds = []Kind{KindPantryItems, KindProfile, KindFavorites, KindMealPlans}

// State describes one (user, kind) subscription.
type State int32

const (
	// StateIdle means no subscription is running.
	StateIdle State = iota
	// StateSubscribed means the live remote feed is attached (or being
	// re-attached after a failure).
	StateSubscribed
	// StateReconciling means a remote change is being folded into the
	// local store right now.
	StateReconciling
)

func (s State) String() string {
	switch s {
	case StateSubscribed:
		return "subscribed"
	case StateReconciling:
		return "reconciling"
	default:
		return "idle"
	}
}

// Coordinator is the synchronization engine. Every user-initiated write
// goes through it: the local store commits synchronously and the remote
// mirror happens on a background goroutine, reported through an
// optional completion callback. A mirror failure never fails the write.
type Coordinator struct {
	pantry    store.PantryStore
	users     store.UserStore
	favorites store.FavoriteStore
	mealPlans store.MealPlanStore
	remote    remote.Client

	retryDelay    time.Duration
	mirrorTimeout time.Duration

	mu    gosync.Mutex
	tasks map[taskKey]*task
}

type taskKey struct {
	userID string
	kind   Kind
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
	state  atomic.Int32
}

// NewCoordinator wires the local stores to a remote client. retryDelay
// is the fixed pause between subscription attempts while the remote is
// unreachable.
func NewCoordinator(
	pantry store.PantryStore,
	users store.UserStore,
	favorites store.FavoriteStore,
	mealPlans store.MealPlanStore,
	rc remote.Client,
	retryDelay time.Duration,
) *Coordinator {
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}
	return &Coordinator{
		pantry:        pantry,
		users:         users,
		favorites:     favorites,
		mealPlans:     mealPlans,
		remote:        rc,
		retryDelay:    retryDelay,
		mirrorTimeout: 15 * time.Second,
		tasks:         make(map[taskKey]*task),
	}
}

// SaveItem commits a pantry item locally and mirrors it to the remote
// in the background. The returned error covers the local write only;
// the mirror outcome arrives on onDone.
func (c *Coordinator) SaveItem(ctx context.Context, item *model.PantryItem, onDone outcome.Callback[*model.PantryItem]) error {
	if err := c.pantry.Put(ctx, item); err != nil {
		return err
	}
	saved := *item
	go func() {
		err := c.mirrorSet(remote.Doc(saved.UserID, string(KindPantryItems), saved.ID), &saved)
		if err != nil {
			log.Printf("sync: pantry item %s mirror failed, will converge on next pull: %v", saved.ID, err)
			onDone.Deliver(outcome.Fail[*model.PantryItem](err))
			return
		}
		onDone.Deliver(outcome.Ok(&saved))
	}()
	return nil
}

// DeleteItem removes a pantry item locally and mirrors the deletion.
func (c *Coordinator) DeleteItem(ctx context.Context, userID, id string, onDone outcome.Callback[struct{}]) error {
	if err := c.pantry.Delete(ctx, userID, id); err != nil {
		return err
	}
	go c.mirrorDelete(remote.Doc(userID, string(KindPantryItems), id), onDone)
	return nil
}

// SaveUser commits a profile locally and mirrors it under users/{id}.
func (c *Coordinator) SaveUser(ctx context.Context, user *model.User, onDone outcome.Callback[*model.User]) error {
	if err := c.users.Put(ctx, user); err != nil {
		return err
	}
	saved := *user
	go func() {
		err := c.mirrorSet(remote.UserDoc(saved.ID), &saved)
		if err != nil {
			log.Printf("sync: profile %s mirror failed, will converge on next pull: %v", saved.ID, err)
			onDone.Deliver(outcome.Fail[*model.User](err))
			return
		}
		onDone.Deliver(outcome.Ok(&saved))
	}()
	return nil
}

// DeleteUser removes a profile locally and mirrors the deletion. Used
// only for explicit account deletion.
func (c *Coordinator) DeleteUser(ctx context.Context, userID string, onDone outcome.Callback[struct{}]) error {
	if err := c.users.Delete(ctx, userID); err != nil {
		return err
	}
	go c.mirrorDelete(remote.UserDoc(userID), onDone)
	return nil
}

// AddFavorite records a favorite locally and mirrors the membership doc
// under users/{userID}/favorites/{recipeID}.
func (c *Coordinator) AddFavorite(ctx context.Context, userID, recipeID string, onDone outcome.Callback[struct{}]) error {
	fav := &model.FavoriteRecipe{UserID: userID, RecipeID: recipeID, AddedAt: time.Now().UTC()}
	if err := c.favorites.Add(ctx, fav); err != nil {
		return err
	}
	saved := *fav
	go func() {
		err := c.mirrorSet(remote.Doc(userID, string(KindFavorites), recipeID), &saved)
		if err != nil {
			log.Printf("sync: favorite %s/%s mirror failed: %v", userID, recipeID, err)
		}
		onDone.Deliver(outcome.Complete(err))
	}()
	return nil
}

// RemoveFavorite drops a favorite locally and mirrors the deletion.
func (c *Coordinator) RemoveFavorite(ctx context.Context, userID, recipeID string, onDone outcome.Callback[struct{}]) error {
	if err := c.favorites.Remove(ctx, userID, recipeID); err != nil {
		return err
	}
	go c.mirrorDelete(remote.Doc(userID, string(KindFavorites), recipeID), onDone)
	return nil
}

// SaveMealPlan commits a plan locally and mirrors it to the remote.
func (c *Coordinator) SaveMealPlan(ctx context.Context, plan *model.MealPlan, onDone outcome.Callback[*model.MealPlan]) error {
	if err := c.mealPlans.Put(ctx, plan); err != nil {
		return err
	}
	saved := *plan
	go func() {
		err := c.mirrorSet(remote.Doc(saved.UserID, string(KindMealPlans), saved.ID), &saved)
		if err != nil {
			log.Printf("sync: meal plan %s mirror failed, will converge on next pull: %v", saved.ID, err)
			onDone.Deliver(outcome.Fail[*model.MealPlan](err))
			return
		}
		onDone.Deliver(outcome.Ok(&saved))
	}()
	return nil
}

// DeleteMealPlan removes a plan locally and mirrors the deletion.
func (c *Coordinator) DeleteMealPlan(ctx context.Context, userID, id string, onDone outcome.Callback[struct{}]) error {
	if err := c.mealPlans.Delete(ctx, userID, id); err != nil {
		return err
	}
	go c.mirrorDelete(remote.Doc(userID, string(KindMealPlans), id), onDone)
	return nil
}

// mirrorSet pushes one entity to its remote path. Runs on its own
// context so an already-finished caller request cannot cancel it.
func (c *Coordinator) mirrorSet(path remote.Path, entity any) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.mirrorTimeout)
	defer cancel()
	doc, err := remote.ToDoc(entity)
	if err != nil {
		return err
	}
	return c.remote.Set(ctx, path, doc)
}

func (c *Coordinator) mirrorDelete(path remote.Path, onDone outcome.Callback[struct{}]) {
	ctx, cancel := context.WithTimeout(context.Background(), c.mirrorTimeout)
	defer cancel()
	err := c.remote.Delete(ctx, path)
	if err != nil {
		log.Printf("sync: delete of %s mirror failed: %v", path, err)
	}
	onDone.Deliver(outcome.Complete(err))
}

// StartSyncing attaches live remote subscriptions for every collection
// of the given user. Idempotent: kinds already syncing are left alone.
func (c *Coordinator) StartSyncing(userID string) {
	if userID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, kind := range allKinds {
		key := taskKey{userID: userID, kind: kind}
		if _, ok := c.tasks[key]; ok {
			continue
		}
		ctx, cancel := context.WithCancel(context.Background())
		t := &task{cancel: cancel, done: make(chan struct{})}
		c.tasks[key] = t
		go c.runSubscription(ctx, t, userID, kind)
	}
}

// StopSyncing cancels the user's subscriptions and waits for their
// goroutines to drain. Idempotent; local data is untouched.
func (c *Coordinator) StopSyncing(userID string) {
	c.mu.Lock()
	var stopped []*task
	for key, t := range c.tasks {
		if key.userID != userID {
			continue
		}
		t.cancel()
		stopped = append(stopped, t)
		delete(c.tasks, key)
	}
	c.mu.Unlock()
	for _, t := range stopped {
		<-t.done
	}
}

// Close stops every running subscription.
func (c *Coordinator) Close() {
	c.mu.Lock()
	var stopped []*task
	for key, t := range c.tasks {
		t.cancel()
		stopped = append(stopped, t)
		delete(c.tasks, key)
	}
	c.mu.Unlock()
	for _, t := range stopped {
		<-t.done
	}
}

// SyncState reports the current subscription state for one (user, kind).
func (c *Coordinator) SyncState(userID string, kind Kind) State {
	c.mu.Lock()
	t, ok := c.tasks[taskKey{userID: userID, kind: kind}]
	c.mu.Unlock()
	if !ok {
		return StateIdle
	}
	return State(t.state.Load())
}

func collectionFor(userID string, kind Kind) remote.CollectionPath {
	if kind == KindProfile {
		return remote.UserCollection(userID)
	}
	return remote.Collection(userID, string(kind))
}

// runSubscription drives one live feed until its context is cancelled.
// A failed or dropped subscription puts the user in degraded mode for
// this kind: local reads and writes keep working, and the feed is
// retried after a fixed delay.
func (c *Coordinator) runSubscription(ctx context.Context, t *task, userID string, kind Kind) {
	defer close(t.done)
	defer t.state.Store(int32(StateIdle))
	coll := collectionFor(userID, kind)
	for {
		t.state.Store(int32(StateSubscribed))
		sub, err := c.remote.Subscribe(ctx, coll)
		if err != nil {
			log.Printf("sync: subscribe %s failed: %v", coll, err)
		} else {
			for ev := range sub.Events() {
				t.state.Store(int32(StateReconciling))
				if err := c.applyChange(ctx, userID, kind, ev); err != nil {
					log.Printf("sync: apply %s change for %s failed: %v", ev.Type, ev.Path, err)
				}
				t.state.Store(int32(StateSubscribed))
			}
			if err := sub.Err(); err != nil {
				log.Printf("sync: feed %s dropped: %v", coll, err)
			} else if ctx.Err() != nil {
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.retryDelay):
		}
	}
}

// applyChange folds one remote change into local storage. The remote
// copy wins unconditionally; a document identical to the local row is
// skipped so replays and snapshot overlaps are harmless.
func (c *Coordinator) applyChange(ctx context.Context, userID string, kind Kind, ev remote.ChangeEvent) error {
	switch kind {
	case KindPantryItems:
		return c.applyItem(ctx, userID, ev)
	case KindProfile:
		return c.applyProfile(ctx, userID, ev)
	case KindFavorites:
		return c.applyFavorite(ctx, userID, ev)
	case KindMealPlans:
		return c.applyMealPlan(ctx, userID, ev)
	default:
		return nil
	}
}

func (c *Coordinator) applyItem(ctx context.Context, userID string, ev remote.ChangeEvent) error {
	if ev.Type == remote.Removed {
		// Owner-scoped: a foreign user's deletion matches no local row.
		return c.pantry.Delete(ctx, userID, ev.Path.DocID)
	}
	var item model.PantryItem
	if err := remote.FromDoc(ev.Doc, &item); err != nil {
		return err
	}
	existing, err := c.pantry.GetByID(ctx, item.ID)
	if err == nil && existing.Equal(&item) {
		return nil
	}
	if err != nil && !stderrors.Is(err, errors.ErrItemNotFound) {
		return err
	}
	return c.pantry.Apply(ctx, &item)
}

func (c *Coordinator) applyProfile(ctx context.Context, userID string, ev remote.ChangeEvent) error {
	if ev.Path.UserID != userID {
		return nil
	}
	if ev.Type == remote.Removed {
		return c.users.Delete(ctx, userID)
	}
	var user model.User
	if err := remote.FromDoc(ev.Doc, &user); err != nil {
		return err
	}
	existing, err := c.users.GetByID(ctx, user.ID)
	if err == nil && existing.Equal(&user) {
		return nil
	}
	if err != nil && !stderrors.Is(err, errors.ErrUserNotFound) {
		return err
	}
	return c.users.Apply(ctx, &user)
}

func (c *Coordinator) applyFavorite(ctx context.Context, userID string, ev remote.ChangeEvent) error {
	if ev.Type == remote.Removed {
		return c.favorites.Remove(ctx, userID, ev.Path.DocID)
	}
	var fav model.FavoriteRecipe
	if err := remote.FromDoc(ev.Doc, &fav); err != nil {
		return err
	}
	if fav.RecipeID == "" {
		fav.RecipeID = ev.Path.DocID
	}
	fav.UserID = userID
	existing, err := c.favorites.Get(ctx, userID, fav.RecipeID)
	if err == nil && existing.AddedAt.Equal(fav.AddedAt) {
		return nil
	}
	if err != nil && !stderrors.Is(err, errors.ErrFavoriteNotFound) {
		return err
	}
	return c.favorites.Add(ctx, &fav)
}

func (c *Coordinator) applyMealPlan(ctx context.Context, userID string, ev remote.ChangeEvent) error {
	if ev.Type == remote.Removed {
		return c.mealPlans.Delete(ctx, userID, ev.Path.DocID)
	}
	var plan model.MealPlan
	if err := remote.FromDoc(ev.Doc, &plan); err != nil {
		return err
	}
	existing, err := c.mealPlans.GetByID(ctx, plan.ID)
	if err == nil && existing.Equal(&plan) {
		return nil
	}
	if err != nil && !stderrors.Is(err, errors.ErrMealPlanNotFound) {
		return err
	}
	return c.mealPlans.Apply(ctx, &plan)
}
