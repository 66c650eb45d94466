package store

import (
	"context"
	"fmt"

	"github.com/abhisek/satprep/ent"
	"github.com/abhisek/satprep/ent/learner"
)

type learnerRepo struct {
	client *ent.Client
}

func (r *learnerRepo) LookupLearner(ctx context.Context, externalID string) (int, bool, error) {
	l, err := r.client.Learner.Query().
		Where(learner.ExternalID(externalID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("query learner: %w", err)
	}
	return l.ID, true, nil
}

func (r *learnerRepo) EnsureLearner(ctx context.Context, externalID, displayName string) (int, error) {
	if externalID == "" {
		return 0, fmt.Errorf("learner identity is empty")
	}

	l, err := r.client.Learner.Query().
		Where(learner.ExternalID(externalID)).
		Only(ctx)
	switch {
	case err == nil:
		if displayName != "" && displayName != l.DisplayName {
			if err := r.client.Learner.UpdateOneID(l.ID).SetDisplayName(displayName).Exec(ctx); err != nil {
				return 0, fmt.Errorf("update learner name: %w", err)
			}
		}
		return l.ID, nil
	case !ent.IsNotFound(err):
		return 0, fmt.Errorf("query learner: %w", err)
	}

	created, err := r.client.Learner.Create().
		SetExternalID(externalID).
		SetDisplayName(displayName).
		Save(ctx)
	if err != nil {
		// Another writer created the learner first.
		if ent.IsConstraintError(err) {
			id, found, lerr := r.LookupLearner(ctx, externalID)
			if lerr == nil && found {
				return id, nil
			}
		}
		return 0, fmt.Errorf("create learner: %w", err)
	}
	return created.ID, nil
}
