package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConstraintPayloadOrgBlacklist(t *testing.T) {
	// 直接数组形态
	payload, err := ParseConstraintPayload(ConstraintOrgBlacklist, json.RawMessage(`[1, 2, 3]`))
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, payload.OrgIDs)

	// 对象形态
	payload, err = ParseConstraintPayload(ConstraintOrgBlacklist, json.RawMessage(`{"orgIDs": [4]}`))
	require.NoError(t, err)
	require.Equal(t, []int64{4}, payload.OrgIDs)

	// 其他形态在写入时直接拒绝
	_, err = ParseConstraintPayload(ConstraintOrgBlacklist, json.RawMessage(`{"ids": [4]}`))
	require.Error(t, err)
	_, err = ParseConstraintPayload(ConstraintOrgBlacklist, json.RawMessage(`"oops"`))
	require.Error(t, err)
}

func TestParseConstraintPayloadAvailability(t *testing.T) {
	payload, err := ParseConstraintPayload(ConstraintAvailability, json.RawMessage(
		`{"unavailable": [{"from": "2025-03-01T00:00:00Z", "to": "2025-03-05T00:00:00Z"}]}`))
	require.NoError(t, err)
	require.Len(t, payload.Unavailable, 1)

	_, err = ParseConstraintPayload(ConstraintAvailability, json.RawMessage(`{}`))
	require.Error(t, err)

	_, err = ParseConstraintPayload(ConstraintAvailability, json.RawMessage(
		`{"unavailable": [{"from": "2025-03-05T00:00:00Z", "to": "2025-03-01T00:00:00Z"}]}`))
	require.Error(t, err)
}

func TestParseConstraintPayloadMaxSlotsPerWeek(t *testing.T) {
	payload, err := ParseConstraintPayload(ConstraintMaxSlotsPerWeek, json.RawMessage(`{"limit": 2}`))
	require.NoError(t, err)
	require.Equal(t, int32(2), payload.Limit)

	_, err = ParseConstraintPayload(ConstraintMaxSlotsPerWeek, json.RawMessage(`{"limit": 0}`))
	require.Error(t, err)
	_, err = ParseConstraintPayload(ConstraintMaxSlotsPerWeek, json.RawMessage(`{}`))
	require.Error(t, err)
}

func TestConstraintAppliesTo(t *testing.T) {
	workerID := int64(5)
	orgID := int64(10)

	global := &Constraint{}
	require.True(t, global.AppliesTo(1, 1))

	orgScoped := &Constraint{OrganizationID: &orgID}
	require.True(t, orgScoped.AppliesTo(1, 10))
	require.False(t, orgScoped.AppliesTo(1, 11))

	workerScoped := &Constraint{WorkerID: &workerID}
	require.True(t, workerScoped.AppliesTo(5, 10))
	require.False(t, workerScoped.AppliesTo(6, 10))
}
