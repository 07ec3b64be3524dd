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

// Rewards reads points and referral state.
type Rewards struct {
	c *contract
}

func NewRewards(address common.Address, caller bind.ContractCaller) *Rewards {
	return &Rewards{c: newContract(sources.KindRewards, address, rewardsABI, caller)}
}

func (r *Rewards) GetPoints(ctx context.Context, passportID id.PassportID) (int64, error) {
	return r.scalar(ctx, sources.OpGetPoints, bigID(passportID))
}

func (r *Rewards) GetPlatformPoints(ctx context.Context, passportID id.PassportID, platform string) (int64, error) {
	return r.scalar(ctx, sources.OpGetPlatformPoints, bigID(passportID), platform)
}

func (r *Rewards) scalar(ctx context.Context, op string, args ...any) (int64, error) {
	d, err := r.c.call(ctx, op, args...)
	if err != nil {
		return 0, err
	}
	points := format.Int64(value[*big.Int](d, 0))
	return points, d.Err()
}

func (r *Rewards) GetPointBreakdown(ctx context.Context, passportID id.PassportID) (models.PointBreakdown, error) {
	d, err := r.c.call(ctx, sources.OpGetPointBreakdown, bigID(passportID))
	if err != nil {
		return models.PointBreakdown{}, err
	}
	breakdown := models.PointBreakdown{
		Holding:  format.Int64(value[*big.Int](d, 0)),
		Platform: format.Int64(value[*big.Int](d, 1)),
		Referral: format.Int64(value[*big.Int](d, 2)),
		Total:    format.Int64(value[*big.Int](d, 3)),
	}
	return breakdown, d.Err()
}

func (r *Rewards) GetReferralInfo(ctx context.Context, passportID id.PassportID) (models.ReferralInfo, error) {
	d, err := r.c.call(ctx, sources.OpGetReferralInfo, bigID(passportID))
	if err != nil {
		return models.ReferralInfo{}, err
	}
	info := models.ReferralInfo{
		ReferralCode:     value[string](d, 0),
		ReferredBy:       value[common.Address](d, 1),
		TotalReferrals:   format.Int64(value[*big.Int](d, 2)),
		ReferralEarnings: format.Int64(value[*big.Int](d, 3)),
		Source:           models.PointsFromRewards,
	}
	return info, d.Err()
}

func (r *Rewards) ValidateReferralCode(ctx context.Context, code string) (models.ReferralValidation, error) {
	d, err := r.c.call(ctx, sources.OpValidateReferralCode, code)
	if err != nil {
		return models.ReferralValidation{}, err
	}
	validation := models.ReferralValidation{
		Code:  code,
		Valid: value[bool](d, 0),
		Owner: id.PassportID(format.Uint64(value[*big.Int](d, 1))),
	}
	return validation, d.Err()
}

func (r *Rewards) GetPointConfig(ctx context.Context) (models.PointConfig, error) {
	d, err := r.c.call(ctx, sources.OpGetPointConfig)
	if err != nil {
		return models.PointConfig{}, err
	}
	cfg := models.PointConfig{
		ReferrerReward:    format.Int64(value[*big.Int](d, 0)),
		RefereeReward:     format.Int64(value[*big.Int](d, 1)),
		HoldingReward:     format.Int64(value[*big.Int](d, 2)),
		HoldingPeriodDays: format.Int64(value[*big.Int](d, 3)),
	}
	return cfg, d.Err()
}
