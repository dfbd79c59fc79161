package build

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildforge/buildforge-backend/pkg/db"
	"github.com/buildforge/buildforge-backend/pkg/db/models"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/logger"
	"github.com/buildforge/buildforge-backend/pkg/pagination"
)

// Service exposes build assembly and persistence operations.
type Service interface {
	CreateBuild(ctx context.Context, userID uuid.UUID, input CreateBuildInput) (*BuildDTO, error)
	GetBuild(ctx context.Context, id uuid.UUID) (*BuildDTO, error)
	ListBuilds(ctx context.Context, params pagination.Params) (*BuildListResult, error)
	ListUserBuilds(ctx context.Context, userID uuid.UUID, params pagination.Params) (*BuildListResult, error)
	PersistRecommended(ctx context.Context, input PersistRecommendedInput) (*PersistResult, error)
}

// CreateBuildInput holds the validated manual-assembly payload.
type CreateBuildInput struct {
	Name         string
	Description  string
	ComponentIDs []uuid.UUID
}

// RecommendedPart is one LLM-selected part awaiting catalog linking.
type RecommendedPart struct {
	Name  string
	Price string
}

// PersistRecommendedInput carries a composed build into persistence.
type PersistRecommendedInput struct {
	Name        string
	Description string
	Parts       []RecommendedPart
	UserID      *uuid.UUID
}

// PersistResult reports the saved build plus linking outcome.
type PersistResult struct {
	Build         *BuildDTO
	LinkedCount   int
	UnlinkedCount int
	UnlinkedNames []string
}

type componentFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Component, error)
	SearchByName(ctx context.Context, needle string) (*models.Component, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	catalog  componentFinder
	logg     *logger.Logger
}

// NewService constructs a build service instance.
func NewService(repo *Repository, dbClient *db.Client, catalog componentFinder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("build repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("component finder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, catalog: catalog, logg: logg}, nil
}

// CreateBuild assembles a build from explicit catalog IDs. At most one
// component per category is allowed.
func (s *service) CreateBuild(ctx context.Context, userID uuid.UUID, input CreateBuildInput) (*BuildDTO, error) {
	if len(input.ComponentIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one component is required")
	}

	seenCategories := map[string]bool{}
	seenIDs := map[uuid.UUID]bool{}
	components := make([]*models.Component, 0, len(input.ComponentIDs))
	for _, id := range input.ComponentIDs {
		if seenIDs[id] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("component %s listed twice", id))
		}
		seenIDs[id] = true

		comp, err := s.catalog.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("component %s not found", id))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find component")
		}
		category := string(comp.Category)
		if seenCategories[category] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("more than one %s component", category))
		}
		seenCategories[category] = true
		components = append(components, comp)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = DefaultBuildName
	}

	var savedID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		pc, err := s.insertWithUniqueName(ctx, txRepo, &models.Pc{
			Name:         name,
			Description:  input.Description,
			IsCustomized: false,
		})
		if err != nil {
			return err
		}
		savedID = pc.ID

		links := make([]models.PcComponent, 0, len(components))
		for _, comp := range components {
			links = append(links, models.PcComponent{PcID: pc.ID, ComponentID: comp.ID})
		}
		if err := txRepo.CreatePcComponents(ctx, links); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert pc components")
		}

		if err := txRepo.LinkUser(ctx, userID, pc.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link user build")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s.GetBuild(ctx, savedID)
}

// GetBuild returns one build with its components.
func (s *service) GetBuild(ctx context.Context, id uuid.UUID) (*BuildDTO, error) {
	pc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "build not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find build")
	}
	dto := toBuildDTO(pc)
	return &dto, nil
}

// ListBuilds pages through all builds newest-first.
func (s *service) ListBuilds(ctx context.Context, params pagination.Params) (*BuildListResult, error) {
	result, err := s.repo.ListPcs(ctx, buildListQuery{Pagination: params})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list builds")
	}
	return result, nil
}

// ListUserBuilds pages through the builds saved by one user.
func (s *service) ListUserBuilds(ctx context.Context, userID uuid.UUID, params pagination.Params) (*BuildListResult, error) {
	result, err := s.repo.ListPcs(ctx, buildListQuery{Pagination: params, UserID: &userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list user builds")
	}
	return result, nil
}

// PersistRecommended saves a composed build. Part names that match no catalog
// row are skipped with a warning; the build is saved with what linked.
func (s *service) PersistRecommended(ctx context.Context, input PersistRecommendedInput) (*PersistResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = DefaultBuildName
	}

	type linkedPart struct {
		componentID uuid.UUID
	}

	linked := make([]linkedPart, 0, len(input.Parts))
	var misses []string
	seen := map[uuid.UUID]bool{}
	for _, part := range input.Parts {
		needle := normalizePartName(part.Name)
		if needle == "" {
			misses = append(misses, part.Name)
			continue
		}
		comp, err := s.catalog.SearchByName(ctx, needle)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logg.Warn(s.logg.WithField(ctx, "part_name", part.Name), "no catalog match for recommended part")
				misses = append(misses, part.Name)
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search component by name")
		}
		if seen[comp.ID] {
			continue
		}
		seen[comp.ID] = true
		linked = append(linked, linkedPart{componentID: comp.ID})
	}

	var savedID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		// AI-generated builds carry the is_customized marker; manual
		// assemblies do not.
		pc, err := s.insertWithUniqueName(ctx, txRepo, &models.Pc{
			Name:         name,
			Description:  input.Description,
			IsCustomized: true,
		})
		if err != nil {
			return err
		}
		savedID = pc.ID

		links := make([]models.PcComponent, 0, len(linked))
		for _, part := range linked {
			links = append(links, models.PcComponent{PcID: pc.ID, ComponentID: part.componentID})
		}
		if err := txRepo.CreatePcComponents(ctx, links); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert pc components")
		}

		if input.UserID != nil {
			if err := txRepo.LinkUser(ctx, *input.UserID, pc.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link user build")
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	dto, err := s.GetBuild(ctx, savedID)
	if err != nil {
		return nil, err
	}

	return &PersistResult{
		Build:         dto,
		LinkedCount:   len(linked),
		UnlinkedCount: len(misses),
		UnlinkedNames: misses,
	}, nil
}

// insertWithUniqueName inserts the build, probing suffixed names on unique
// violations instead of checking first. Each attempt runs in a nested
// transaction so a failed insert does not poison the enclosing one.
func (s *service) insertWithUniqueName(ctx context.Context, repo *Repository, pc *models.Pc) (*models.Pc, error) {
	base := pc.Name
	for probe := 0; probe <= maxNameProbes; probe++ {
		if probe > 0 {
			pc.Name = fmt.Sprintf("%s-%d", base, probe)
			pc.ID = uuid.Nil
		}
		err := repo.db.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
			return inner.Create(pc).Error
		})
		if err == nil {
			return pc, nil
		}
		if !db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert pc")
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("no free name for build %q", base))
}
