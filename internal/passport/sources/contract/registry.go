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

// Registry reads passports from the identity registry contract.
type Registry struct {
	c *contract
}

// NewRegistry wraps a registry deployed at address without probing for code.
func NewRegistry(address common.Address, caller bind.ContractCaller) *Registry {
	return &Registry{c: newContract(sources.KindRegistry, address, registryABI, caller)}
}

func (r *Registry) PassportIDByOwner(ctx context.Context, owner common.Address) (id.PassportID, error) {
	d, err := r.c.call(ctx, sources.OpGetPassportByOwner, owner)
	if err != nil {
		return 0, err
	}
	raw := value[*big.Int](d, 0)
	if err := d.Err(); err != nil {
		return 0, err
	}
	if raw.Sign() == 0 {
		return 0, r.c.notFound(sources.OpGetPassportByOwner, "owner holds no passport")
	}
	return id.PassportID(format.Uint64(raw)), nil
}

func (r *Registry) GetPassport(ctx context.Context, passportID id.PassportID) (sources.PassportRecord, error) {
	d, err := r.c.call(ctx, sources.OpGetPassport, bigID(passportID))
	if err != nil {
		return sources.PassportRecord{}, err
	}
	record := sources.PassportRecord{
		ID:                passportID,
		Owner:             value[common.Address](d, 0),
		CreatedAt:         format.UnixTime(value[*big.Int](d, 1)),
		VerificationCount: format.Int64(value[*big.Int](d, 2)),
		Category:          value[string](d, 3),
		TotalPoints:       format.Int64(value[*big.Int](d, 4)),
		ReferralCode:      value[string](d, 5),
		TotalReferrals:    format.Int64(value[*big.Int](d, 6)),
	}
	if err := d.Err(); err != nil {
		return sources.PassportRecord{}, err
	}
	// Unminted ids read back as the zero struct.
	if record.Owner == (common.Address{}) {
		return sources.PassportRecord{}, r.c.notFound(sources.OpGetPassport, "passport "+passportID.String()+" does not exist")
	}
	return record, nil
}

func (r *Registry) GetVerifiedPlatforms(ctx context.Context, passportID id.PassportID) ([]string, error) {
	d, err := r.c.call(ctx, sources.OpGetVerifiedPlatforms, bigID(passportID))
	if err != nil {
		return nil, err
	}
	platforms := value[[]string](d, 0)
	return platforms, d.Err()
}

func (r *Registry) GetVerification(ctx context.Context, passportID id.PassportID, platform string) (models.Verification, error) {
	d, err := r.c.call(ctx, sources.OpGetVerification, bigID(passportID), platform)
	if err != nil {
		return models.Verification{}, err
	}
	v := models.Verification{
		Identifier: value[string](d, 0),
		VerifiedAt: format.UnixTime(value[*big.Int](d, 1)),
		ProofHash:  models.ProofHash(value[[32]byte](d, 2)),
		Active:     value[bool](d, 3),
	}
	// Older registry deployments do not report the points flag.
	if d.has(4) {
		awarded := value[bool](d, 4)
		v.PointsAwarded = &awarded
	}
	if err := d.Err(); err != nil {
		return models.Verification{}, err
	}
	if v.Identifier == "" && v.VerifiedAt.IsZero() {
		return models.Verification{}, r.c.notFound(sources.OpGetVerification, "no verification for "+platform)
	}
	return v, nil
}

func (r *Registry) IsIdentifierVerified(ctx context.Context, platform, identifier string) (bool, id.PassportID, error) {
	d, err := r.c.call(ctx, sources.OpIsIdentifierVerified, platform, identifier)
	if err != nil {
		return false, 0, err
	}
	verified := value[bool](d, 0)
	passportID := id.PassportID(format.Uint64(value[*big.Int](d, 1)))
	if err := d.Err(); err != nil {
		return false, 0, err
	}
	return verified, passportID, nil
}

func (r *Registry) GetSupportedCategories(ctx context.Context) ([]string, error) {
	d, err := r.c.call(ctx, sources.OpGetSupportedCategories)
	if err != nil {
		return nil, err
	}
	categories := value[[]string](d, 0)
	return categories, d.Err()
}
