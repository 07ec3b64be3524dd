package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"passport/internal/passport/format"
	"passport/internal/passport/models"
	"passport/internal/passport/sources"
	id "passport/pkg/domain"
)

// Platforms reads platform configuration.
type Platforms struct {
	c *contract
}

func NewPlatforms(address common.Address, caller bind.ContractCaller) *Platforms {
	return &Platforms{c: newContract(sources.KindPlatforms, address, platformsABI, caller)}
}

func (p *Platforms) GetPlatformConfig(ctx context.Context, platform string) (models.PlatformConfig, error) {
	d, err := p.c.call(ctx, sources.OpGetPlatformConfig, platform)
	if err != nil {
		return models.PlatformConfig{}, err
	}
	cfg := models.PlatformConfig{
		Platform:          platform,
		Supported:         value[bool](d, 0),
		PlatformType:      value[string](d, 1),
		RequiredPlatforms: value[[]string](d, 2),
		PointReward:       format.Int64(value[*big.Int](d, 3)),
		Punishment: models.PunishmentPolicy{
			Enabled:    value[bool](d, 4),
			PeriodDays: format.Int64(value[*big.Int](d, 5)),
		},
	}
	return cfg, d.Err()
}

func (p *Platforms) GetSupportedPlatforms(ctx context.Context) ([]string, error) {
	d, err := p.c.call(ctx, sources.OpGetSupportedPlatforms)
	if err != nil {
		return nil, err
	}
	platforms := value[[]string](d, 0)
	return platforms, d.Err()
}

func (p *Platforms) ValidatePlatformDependencies(ctx context.Context, platform string, verified []string) (models.DependencyCheck, error) {
	if verified == nil {
		verified = []string{}
	}
	d, err := p.c.call(ctx, sources.OpValidateDependencies, platform, verified)
	if err != nil {
		return models.DependencyCheck{}, err
	}
	check := models.DependencyCheck{
		Platform: platform,
		Valid:    value[bool](d, 0),
		Missing:  value[[]string](d, 1),
	}
	return check, d.Err()
}

// Archive reads verification history, revoked entries included.
type Archive struct {
	c *contract
}

func NewArchive(address common.Address, caller bind.ContractCaller) *Archive {
	return &Archive{c: newContract(sources.KindArchive, address, archiveABI, caller)}
}

type historyTuple struct {
	Identifier   string
	VerifiedAt   *big.Int
	RevokedAt    *big.Int
	ProofHash    [32]byte
	WasRevoked   bool
	RevokeReason string
}

func (a *Archive) GetVerificationHistory(ctx context.Context, passportID id.PassportID, platform string) ([]models.HistoryEntry, error) {
	d, err := a.c.call(ctx, sources.OpGetVerificationHistory, bigID(passportID), platform)
	if err != nil {
		return nil, err
	}
	tuples := convert[[]historyTuple](d, 0)
	if err := d.Err(); err != nil {
		return nil, err
	}
	history := make([]models.HistoryEntry, 0, len(tuples))
	for _, t := range tuples {
		history = append(history, models.HistoryEntry{
			Identifier:   t.Identifier,
			VerifiedAt:   format.UnixTime(t.VerifiedAt),
			RevokedAt:    format.OptionalUnixTime(t.RevokedAt),
			ProofHash:    models.ProofHash(t.ProofHash),
			WasRevoked:   t.WasRevoked,
			RevokeReason: t.RevokeReason,
		})
	}
	return history, nil
}

func (a *Archive) GetPlatformHistory(ctx context.Context, passportID id.PassportID, platform string) (models.PlatformHistory, error) {
	d, err := a.c.call(ctx, sources.OpGetPlatformHistory, bigID(passportID), platform)
	if err != nil {
		return models.PlatformHistory{}, err
	}
	summary := models.PlatformHistory{
		Platform:           platform,
		TotalVerifications: format.Int64(value[*big.Int](d, 0)),
		TotalRevocations:   format.Int64(value[*big.Int](d, 1)),
		FirstVerifiedAt:    format.OptionalUnixTime(value[*big.Int](d, 2)),
		LastVerifiedAt:     format.OptionalUnixTime(value[*big.Int](d, 3)),
	}
	return summary, d.Err()
}
