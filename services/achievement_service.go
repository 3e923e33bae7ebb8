// services/achievement_service.go - achievement/points engine
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"edvantage/models"
	"edvantage/storage"
	"edvantage/utils"
)

var (
	// ErrNotAuthenticated is returned by mutating calls when no user session
	// is active. Reads return zero values instead.
	ErrNotAuthenticated = errors.New("achievements: no authenticated user")

	// ErrUnknownAchievement is returned for ids not in the catalog. State is
	// untouched; callers that do not care may ignore it.
	ErrUnknownAchievement = errors.New("achievements: unknown achievement id")

	// ErrSnapshotNotFound is returned when a share token resolves to nothing.
	ErrSnapshotNotFound = errors.New("achievements: shared snapshot not found")
)

const (
	defaultKeyPrefix = "edvantage"
	mirrorTimeout    = 5 * time.Second
	snapshotCacheTTL = 5 * time.Minute
)

// Config carries the engine's settings.
type Config struct {
	// KeyPrefix namespaces durable keys per user.
	KeyPrefix string
	// BaseURL is the origin embedded in shareable links.
	BaseURL string
}

// Service tracks one user's achievement progress and point total.
//
// Progress mutations persist the full collection to the durable key/value
// tier synchronously and mirror it to the record store in the background
// (fire and forget), so callers always observe the in-memory state
// immediately. The point total is derived from the earned subset, never
// stored as an independent authority; the points key is still written so the
// documented key namespace stays intact for migration tooling.
type Service struct {
	cfg      Config
	kv       *storage.KVStore
	records  *storage.RecordStore // optional background mirror
	cache    *storage.MemCache
	notifier Notifier
	animator *Animator
	log      *zap.SugaredLogger
	now      func() time.Time

	mu           sync.Mutex
	user         *models.User
	achievements []*models.Achievement
	index        map[string]*models.Achievement
}

// NewService wires the engine. records may be nil to disable the background
// mirror; a nil notifier falls back to logging and a nil cache is created.
func NewService(cfg Config, kv *storage.KVStore, records *storage.RecordStore, cache *storage.MemCache, notifier Notifier, animator *Animator, log *zap.SugaredLogger) *Service {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	if cache == nil {
		cache = storage.NewMemCache()
	}
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}
	if animator == nil {
		animator = NewAnimator(5*time.Second, log)
	}
	return &Service{
		cfg:      cfg,
		kv:       kv,
		records:  records,
		cache:    cache,
		notifier: notifier,
		animator: animator,
		log:      log,
		now:      time.Now,
	}
}

// Animator exposes the unlock banner state machine for the presentation
// layer to observe.
func (s *Service) Animator() *Animator {
	return s.animator
}

// StartSession loads the persisted collection for user, seeding from catalog
// where nothing is stored yet. Catalog entries added since the last persist
// are appended; stored entries always win over catalog defaults.
func (s *Service) StartSession(user *models.User, catalog []models.Achievement) error {
	if user == nil {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	s.user = &u
	s.achievements = nil
	s.index = make(map[string]*models.Achievement)

	var stored []models.Achievement
	if s.kv.GetItem(s.achievementsKey(u.ID), &stored) {
		for i := range stored {
			s.addLocked(stored[i])
		}
	}
	for _, def := range catalog {
		if _, ok := s.index[def.ID]; ok {
			continue
		}
		s.addLocked(def)
	}

	s.log.Infof("achievement session started for user %s (%d achievements, %d points)",
		u.ID, len(s.achievements), s.pointsLocked())
	return nil
}

func (s *Service) addLocked(a models.Achievement) {
	if a.ID == "" || a.MaxProgress <= 0 {
		s.log.Warnf("skipping invalid achievement %q (max progress %d)", a.ID, a.MaxProgress)
		return
	}
	if _, ok := s.index[a.ID]; ok {
		s.log.Warnf("skipping duplicate achievement id %q", a.ID)
		return
	}
	entry := a
	s.achievements = append(s.achievements, &entry)
	s.index[entry.ID] = &entry
}

// EndSession persists the current state and detaches the user. Mutating
// calls return ErrNotAuthenticated until the next StartSession.
func (s *Service) EndSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	s.persistLocked()
	s.log.Infof("achievement session ended for user %s", s.user.ID)
	s.user = nil
	s.achievements = nil
	s.index = nil
}

// Close ends the session and stops the animator.
func (s *Service) Close() {
	s.EndSession()
	s.animator.Stop()
}

// UpdateProgress sets the achievement's progress, clamped to
// [0, MaxProgress]. Reaching MaxProgress while unearned runs the award
// transition before returning. The full collection is persisted on every
// call.
func (s *Service) UpdateProgress(id string, newProgress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNotAuthenticated
	}
	a, ok := s.index[id]
	if !ok {
		return ErrUnknownAchievement
	}

	if newProgress < 0 {
		newProgress = 0
	}
	if newProgress > a.MaxProgress {
		newProgress = a.MaxProgress
	}
	a.Progress = newProgress

	if a.Progress >= a.MaxProgress && !a.Earned() {
		s.awardLocked(a)
	}

	s.persistLocked()
	return nil
}

// Award earns the achievement directly, regardless of current progress.
// Idempotent: an already-earned achievement is left untouched.
func (s *Service) Award(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNotAuthenticated
	}
	a, ok := s.index[id]
	if !ok {
		return ErrUnknownAchievement
	}
	if a.Earned() {
		return nil
	}
	s.awardLocked(a)
	s.persistLocked()
	return nil
}

// awardLocked runs the one-way Unearned -> Earned transition: timestamp,
// progress forced to max, toast, banner. Points are not tracked separately;
// the total is derived from the earned subset.
func (s *Service) awardLocked(a *models.Achievement) {
	now := s.now()
	a.EarnedAt = &now
	a.Progress = a.MaxProgress

	s.notifier.Notify(models.Toast{
		Title:       "Achievement Unlocked!",
		Description: fmt.Sprintf("%s (+%d points)", a.Title, a.Points),
	})
	s.animator.Show(*a)

	s.log.Infof("user %s earned %q (+%d points)", s.user.ID, a.ID, a.Points)
}

// Achievements returns a copy of the full collection.
func (s *Service) Achievements() []models.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Achievement, 0, len(s.achievements))
	for _, a := range s.achievements {
		out = append(out, *a)
	}
	return out
}

// Achievement returns one entry by id.
func (s *Service) Achievement(id string) (models.Achievement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.index[id]
	if !ok {
		return models.Achievement{}, false
	}
	return *a, true
}

// EarnedAchievements returns the earned subset.
func (s *Service) EarnedAchievements() []models.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Achievement
	for _, a := range s.achievements {
		if a.Earned() {
			out = append(out, *a)
		}
	}
	return out
}

// UserPoints is the running total: the sum of Points over earned
// achievements. Zero when no session is active.
func (s *Service) UserPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointsLocked()
}

func (s *Service) pointsLocked() int {
	total := 0
	for _, a := range s.achievements {
		if a.Earned() {
			total += a.Points
		}
	}
	return total
}

// ShareableLink snapshots the current user's earned achievements and point
// total under a fresh 8-character token and returns the public URL for it.
// The snapshot never changes once written; later progress only shows up in
// links generated later.
func (s *Service) ShareableLink() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return "", ErrNotAuthenticated
	}

	snap := models.ShareSnapshot{
		ShortID:     utils.NewShareToken(),
		UserID:      s.user.ID,
		UserName:    s.user.Name,
		TotalPoints: s.pointsLocked(),
		CreatedAt:   s.now(),
	}
	for _, a := range s.achievements {
		if !a.Earned() {
			continue
		}
		snap.Earned = append(snap.Earned, models.EarnedAchievement{
			ID:       a.ID,
			Title:    a.Title,
			Points:   a.Points,
			EarnedAt: *a.EarnedAt,
		})
	}

	key := s.shareKey(snap.ShortID)
	s.kv.SetItem(key, snap)
	s.cache.Set(key, snap, snapshotCacheTTL)
	if s.records != nil {
		go s.mirrorSnapshot(snap)
	}

	return fmt.Sprintf("%s/achievements/shared/%s",
		strings.TrimSuffix(s.cfg.BaseURL, "/"), snap.ShortID), nil
}

// SharedSnapshot resolves a share token: memory cache first, then the
// durable key/value tier, then the record-store mirror.
func (s *Service) SharedSnapshot(ctx context.Context, shortID string) (models.ShareSnapshot, error) {
	key := s.shareKey(shortID)

	if cached, ok := s.cache.Get(key); ok {
		if snap, ok := cached.(models.ShareSnapshot); ok {
			return snap, nil
		}
	}

	var snap models.ShareSnapshot
	if s.kv.GetItem(key, &snap) {
		s.cache.Set(key, snap, snapshotCacheTTL)
		return snap, nil
	}

	if s.records != nil {
		var row models.SnapshotRecord
		err := s.records.Get(ctx, &row, "short_id = ?", shortID)
		if err == nil {
			snap = models.ShareSnapshot{
				ShortID:     row.ShortID,
				UserID:      row.UserID,
				UserName:    row.UserName,
				TotalPoints: row.TotalPoints,
				CreatedAt:   row.CreatedAt,
			}
			if err := json.Unmarshal([]byte(row.Payload), &snap.Earned); err != nil {
				s.log.Warnf("corrupt snapshot payload for %s: %v", shortID, err)
			}
			s.cache.Set(key, snap, snapshotCacheTTL)
			return snap, nil
		}
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrStoreClosed) {
			s.log.Warnf("record store lookup for snapshot %s failed: %v", shortID, err)
		}
	}

	return models.ShareSnapshot{}, ErrSnapshotNotFound
}

// persistLocked writes the full collection and the derived point total to
// the durable tier, then mirrors to the record store in the background.
// KVStore swallows its own failures, so this never surfaces an error.
func (s *Service) persistLocked() {
	if s.user == nil {
		return
	}
	s.kv.SetItem(s.achievementsKey(s.user.ID), s.achievements)
	s.kv.SetItem(s.pointsKey(s.user.ID), s.pointsLocked())

	if s.records != nil {
		rows := make([]models.AchievementRecord, 0, len(s.achievements))
		for _, a := range s.achievements {
			rows = append(rows, models.AchievementRecord{
				UserID:        s.user.ID,
				AchievementID: a.ID,
				Title:         a.Title,
				Description:   a.Description,
				Category:      a.Category,
				Icon:          a.Icon,
				Points:        a.Points,
				Progress:      a.Progress,
				MaxProgress:   a.MaxProgress,
				EarnedAt:      a.EarnedAt,
			})
		}
		go s.mirrorAchievements(rows)
	}
}

func (s *Service) mirrorAchievements(rows []models.AchievementRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	if err := s.records.Open(ctx); err != nil {
		s.log.Warnf("record store mirror unavailable: %v", err)
		return
	}
	for i := range rows {
		if err := s.records.Put(ctx, &rows[i]); err != nil {
			s.log.Warnf("failed to mirror achievement %s: %v", rows[i].AchievementID, err)
			return
		}
	}
}

func (s *Service) mirrorSnapshot(snap models.ShareSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	payload, err := json.Marshal(snap.Earned)
	if err != nil {
		s.log.Errorf("failed to serialize snapshot %s: %v", snap.ShortID, err)
		return
	}
	if err := s.records.Open(ctx); err != nil {
		s.log.Warnf("record store mirror unavailable: %v", err)
		return
	}
	row := models.SnapshotRecord{
		ShortID:     snap.ShortID,
		UserID:      snap.UserID,
		UserName:    snap.UserName,
		TotalPoints: snap.TotalPoints,
		Payload:     string(payload),
		CreatedAt:   snap.CreatedAt,
	}
	if err := s.records.Put(ctx, &row); err != nil {
		s.log.Warnf("failed to mirror snapshot %s: %v", snap.ShortID, err)
	}
}

func (s *Service) achievementsKey(userID string) string {
	return fmt.Sprintf("%s-achievements-%s", s.cfg.KeyPrefix, userID)
}

func (s *Service) pointsKey(userID string) string {
	return fmt.Sprintf("%s-points-%s", s.cfg.KeyPrefix, userID)
}

func (s *Service) shareKey(shortID string) string {
	return fmt.Sprintf("%s-share-%s", s.cfg.KeyPrefix, shortID)
}
