// internal/app/lifecycle/orchestrator.go
package lifecycle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/marcuwynu23/gitshelf/internal/app/system/auth"
	"github.com/marcuwynu23/gitshelf/internal/app/system/timeouts"
	"github.com/marcuwynu23/gitshelf/internal/domain/models"
)

// ActivityAppender is the slice of the activity store the orchestrator
// needs. *activities.Store implements it.
type ActivityAppender interface {
	Append(ctx context.Context, a models.Activity) (models.Activity, error)
}

// Notifier pushes an event to every live session a user holds.
// *notify.Hub implements it.
type Notifier interface {
	NotifyUser(userID, event string, payload any)
}

// EventNewActivity is the live event emitted for each recorded activity.
const EventNewActivity = "new_activity"

// Orchestrator runs a lifecycle mutation and, when it commits, records
// exactly one activity and pushes it to the actor's live sessions. Activity
// and notification failures never fail the mutation; they are logged and
// the mutation's result is returned as-is.
type Orchestrator struct {
	manager    *Manager
	activities ActivityAppender
	hub        Notifier
	log        *zap.Logger
}

func NewOrchestrator(m *Manager, activities ActivityAppender, hub Notifier, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{manager: m, activities: activities, hub: hub, log: logger}
}

// Manager exposes the wrapped manager for read paths that need no
// activity trail.
func (o *Orchestrator) Manager() *Manager { return o.manager }

func (o *Orchestrator) Create(ctx context.Context, actor auth.Identity, ownerID, name, title, description string) (models.RepoView, error) {
	view, err := o.manager.Create(ctx, ownerID, name, title, description)
	if err != nil {
		return models.RepoView{}, err
	}
	o.record(ctx, actor, ownerID, view.Name, models.ActivityRepoCreate,
		fmt.Sprintf("Created repository %s", view.Title),
		description)
	return view, nil
}

func (o *Orchestrator) UpdateMeta(ctx context.Context, actor auth.Identity, ownerID, name string, title, description *string) (models.RepoView, error) {
	view, err := o.manager.UpdateMeta(ctx, ownerID, name, title, description)
	if err != nil {
		return models.RepoView{}, err
	}
	o.record(ctx, actor, ownerID, view.Name, models.ActivityRepoUpdate,
		fmt.Sprintf("Updated repository %s", view.Title), "")
	return view, nil
}

func (o *Orchestrator) Rename(ctx context.Context, actor auth.Identity, ownerID, oldName, newName string) (models.RepoView, error) {
	view, err := o.manager.Rename(ctx, ownerID, oldName, newName)
	if err != nil {
		return models.RepoView{}, err
	}
	o.record(ctx, actor, ownerID, view.Name, models.ActivityRepoRename,
		fmt.Sprintf("Renamed repository %s to %s", models.DisplayTitle(oldName), view.Title), "")
	return view, nil
}

func (o *Orchestrator) Archive(ctx context.Context, actor auth.Identity, ownerID, name string) (models.RepoView, error) {
	view, err := o.manager.Archive(ctx, ownerID, name)
	if err != nil {
		return models.RepoView{}, err
	}
	o.record(ctx, actor, ownerID, view.Name, models.ActivityRepoArchive,
		fmt.Sprintf("Archived repository %s", view.Title), "")
	return view, nil
}

func (o *Orchestrator) Unarchive(ctx context.Context, actor auth.Identity, ownerID, name string) (models.RepoView, error) {
	view, err := o.manager.Unarchive(ctx, ownerID, name)
	if err != nil {
		return models.RepoView{}, err
	}
	o.record(ctx, actor, ownerID, view.Name, models.ActivityRepoUnarchive,
		fmt.Sprintf("Unarchived repository %s", view.Title), "")
	return view, nil
}

func (o *Orchestrator) Delete(ctx context.Context, actor auth.Identity, ownerID, name string) error {
	canonical := models.CanonicalRepoName(name)
	if err := o.manager.Delete(ctx, ownerID, name); err != nil {
		return err
	}
	o.record(ctx, actor, ownerID, canonical, models.ActivityRepoDelete,
		fmt.Sprintf("Deleted repository %s", models.DisplayTitle(canonical)), "")
	return nil
}

// record appends the activity and fans it out. The mutation has already
// committed, so the append runs on a context detached from the caller's
// cancellation; a failure here is logged, never propagated.
func (o *Orchestrator) record(ctx context.Context, actor auth.Identity, ownerID, repoName, typ, title, description string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()

	act, err := o.activities.Append(ctx, models.Activity{
		UserID:      actor.UserID,
		Type:        typ,
		Title:       title,
		Description: description,
		Link:        o.manager.addr.HTTP(ownerID, repoName),
	})
	if err != nil {
		o.log.Warn("activity append failed after committed mutation",
			zap.String("user_id", actor.UserID),
			zap.String("type", typ),
			zap.String("repo", repoName),
			zap.Error(err))
		return
	}

	o.hub.NotifyUser(actor.UserID, EventNewActivity, act)
}
