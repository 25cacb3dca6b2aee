package resolver

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/uploads"
)

// DashboardActivities returns the recent dashboard feed, newest first.
func (r *Resolvers) DashboardActivities(ctx context.Context, args ListArgs) ([]model.Activity, error) {
	return r.Store.Activities(ctx, args.options())
}

// DashboardSettings returns the settings singleton, creating it with
// defaults on first access.
func (r *Resolvers) DashboardSettings(ctx context.Context) (*model.DashboardSettings, error) {
	return r.Store.DashboardSettings(ctx)
}

// SettingsInput carries dashboard settings updates. Upload fields replace
// the current values when set.
type SettingsInput struct {
	ScaffoldTitle    string            `json:"scaffoldTitle"`
	ScaffoldPrimary  *bson.ObjectID    `json:"scaffoldPrimary"`
	ScaffoldResidues []bson.ObjectID   `json:"scaffoldResidues"`
	IsRandom         *bool             `json:"isRandom"`
	MetaTitle        string            `json:"metaTitle"`
	MetaDescription  string            `json:"metaDescription"`
	Logotype         *uploads.Incoming `json:"-"`
	Background       *uploads.Incoming `json:"-"`
}

// UpdateDashboardSettings edits the settings singleton.
func (r *Resolvers) UpdateDashboardSettings(ctx context.Context, viewer *model.User, input SettingsInput) (*model.DashboardSettings, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	settings, err := r.Store.DashboardSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.ScaffoldTitle != "" {
		settings.Scaffold.Title = input.ScaffoldTitle
	}
	if input.ScaffoldPrimary != nil {
		settings.Scaffold.Primary = input.ScaffoldPrimary
	}
	if input.ScaffoldResidues != nil {
		settings.Scaffold.Residues = input.ScaffoldResidues
	}
	if input.IsRandom != nil {
		settings.Scaffold.IsRandom = *input.IsRandom
	}
	if input.MetaTitle != "" {
		settings.Meta.Title = input.MetaTitle
	}
	if input.MetaDescription != "" {
		settings.Meta.Description = input.MetaDescription
	}

	if input.Logotype != nil {
		logotype, err := r.Uploads.Create(ctx, model.UploadImage, input.Logotype)
		if err != nil {
			return nil, err
		}
		old := settings.General.Logotype
		settings.General.Logotype = &logotype.ID
		if old != nil {
			if err := r.Uploads.Delete(ctx, model.UploadImage, *old); err != nil {
				return nil, err
			}
		}
	}
	if input.Background != nil {
		background, err := r.Uploads.Create(ctx, model.UploadImage, input.Background)
		if err != nil {
			return nil, err
		}
		old := settings.Scaffold.Background
		settings.Scaffold.Background = &background.ID
		if old != nil {
			if err := r.Uploads.Delete(ctx, model.UploadImage, *old); err != nil {
				return nil, err
			}
		}
	}

	if err := r.Store.SaveDashboardSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// DeleteDashboardSettings drops the settings singleton. The next read
// recreates the defaults.
func (r *Resolvers) DeleteDashboardSettings(ctx context.Context, viewer *model.User) (bool, error) {
	if err := requireViewer(viewer); err != nil {
		return false, err
	}
	if err := r.Store.DeleteDashboardSettings(ctx); err != nil {
		return false, err
	}
	return true, nil
}
