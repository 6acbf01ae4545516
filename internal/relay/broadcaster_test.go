package relay

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kabylesystem/xrpl-hackaton/internal/client"
	"github.com/kabylesystem/xrpl-hackaton/internal/model"
	"github.com/kabylesystem/xrpl-hackaton/xrp"
)

const (
	testFundingBlob = "12000022000000002400C2F920201B00C3457E6140000000002DC6C068400000000000000C7321ED425294A1D110D59CEAC368DC07A01B6C99FA339884483A8EE4BF19317128C8ED7440AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899AABBCCDD"
	testSweepBlob   = "1200152400000001201B00C3463A68400000000000000A7321ED227DEA27DA4F8338CB283D9D2CE93F2864B3B3A209B721A2165EF7E2F30ACBF37440AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899AABBCCDD"
)

type fakeLedger struct {
	submitted []string
	results   map[string]client.SubmitResult
	info      xrp.AccountInfo
	infoErr   error
}

func (f *fakeLedger) Submit(ctx context.Context, blob string) (client.SubmitResult, error) {
	return f.SubmitAndWait(ctx, blob)
}

func (f *fakeLedger) SubmitAndWait(_ context.Context, blob string) (client.SubmitResult, error) {
	f.submitted = append(f.submitted, blob)
	if result, ok := f.results[blob]; ok {
		return result, nil
	}
	return client.SubmitResult{EngineResult: "tesSUCCESS", Hash: fmt.Sprintf("HASH%d", len(f.submitted)), Validated: true}, nil
}

func (f *fakeLedger) AccountInfo(context.Context, string) (xrp.AccountInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeLedger) Fee(context.Context) (string, error) { return "12", nil }

func (f *fakeLedger) LedgerIndex(context.Context) (uint32, error) { return 5000, nil }

type fakeGateway struct {
	sent []string
}

func (f *fakeGateway) Send(_ context.Context, _, body string) error {
	f.sent = append(f.sent, body)
	return nil
}

func newTestBroadcaster(t *testing.T, ledger *fakeLedger, gateway *fakeGateway, directory Directory) *Broadcaster {
	t.Helper()
	checkpoints, err := OpenCheckpointStore(t.TempDir() + "/relay.db")
	require.NoError(t, err)
	t.Cleanup(func() { checkpoints.Close() })
	if directory == nil {
		directory = EmptyDirectory{}
	}
	return NewBroadcaster(ledger, gateway, directory, checkpoints, zap.NewNop())
}

func TestClaimRelaySuccess(t *testing.T) {
	ledger := &fakeLedger{}
	gateway := &fakeGateway{}
	b := newTestBroadcaster(t, ledger, gateway, nil)

	err := b.Handle(context.Background(), "+15550001", testFundingBlob+"|"+testSweepBlob)
	require.NoError(t, err)

	require.Equal(t, []string{testFundingBlob, testSweepBlob}, ledger.submitted)
	require.Len(t, gateway.sent, 1)
	require.Contains(t, gateway.sent[0], "Claim confirmed")
}

func TestClaimRelayFundingRejectedSkipsSweep(t *testing.T) {
	ledger := &fakeLedger{
		results: map[string]client.SubmitResult{
			testFundingBlob: {EngineResult: "tecUNFUNDED_PAYMENT", Hash: "FUNDHASH"},
		},
	}
	gateway := &fakeGateway{}
	b := newTestBroadcaster(t, ledger, gateway, nil)

	err := b.Handle(context.Background(), "+15550001", testFundingBlob+"|"+testSweepBlob)
	require.Error(t, err)
	require.True(t, model.IsLedgerRejection(err))

	// The sweep must never reach the ledger after a funding rejection.
	require.Equal(t, []string{testFundingBlob}, ledger.submitted)
	require.Len(t, gateway.sent, 1)
	require.Contains(t, gateway.sent[0], "tecUNFUNDED_PAYMENT")
	require.NotContains(t, gateway.sent[0], "confirmed")
}

func TestClaimRelayPartialFailure(t *testing.T) {
	ledger := &fakeLedger{
		results: map[string]client.SubmitResult{
			testFundingBlob: {EngineResult: "tesSUCCESS", Hash: "FUNDINGHASH123456", Validated: true},
			testSweepBlob:   {EngineResult: "tecNO_PERMISSION", Hash: "SWEEPHASH999999"},
		},
	}
	gateway := &fakeGateway{}
	b := newTestBroadcaster(t, ledger, gateway, nil)

	err := b.Handle(context.Background(), "+15550001", testFundingBlob+"|"+testSweepBlob)
	require.Error(t, err)
	require.True(t, model.IsPartialRelayFailure(err))

	require.Equal(t, []string{testFundingBlob, testSweepBlob}, ledger.submitted)
	require.Len(t, gateway.sent, 1)

	// A partial failure names the confirmed funding and the sweep's
	// rejection reason, and must not look like a total failure.
	reply := gateway.sent[0]
	require.Contains(t, reply, "FUNDINGHASH1")
	require.Contains(t, reply, "tecNO_PERMISSION")
	require.NotContains(t, reply, "SWEEPHASH")
}

func TestPartialFailureCheckpointed(t *testing.T) {
	ledger := &fakeLedger{
		results: map[string]client.SubmitResult{
			testSweepBlob: {EngineResult: "tefMAX_LEDGER", Hash: "SWEEPHASH"},
		},
	}
	gateway := &fakeGateway{}
	b := newTestBroadcaster(t, ledger, gateway, nil)

	_ = b.Handle(context.Background(), "+15550001", testFundingBlob+"|"+testSweepBlob)

	pending, err := b.checkpoints.PendingSweeps(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, StateSweepFailed, pending[0].State)
	require.Equal(t, "tefMAX_LEDGER", pending[0].Reason)
	require.NotEmpty(t, pending[0].FundingHash)
}

func TestSingleSignedTx(t *testing.T) {
	ledger := &fakeLedger{
		results: map[string]client.SubmitResult{
			testFundingBlob: {EngineResult: "tesSUCCESS", Hash: "ABCDEF1234567890", Validated: true},
		},
	}
	gateway := &fakeGateway{}
	b := newTestBroadcaster(t, ledger, gateway, nil)

	err := b.Handle(context.Background(), "+15550001", testFundingBlob)
	require.NoError(t, err)
	require.Equal(t, []string{testFundingBlob}, ledger.submitted)
	require.Contains(t, gateway.sent[0], "Payment confirmed! TX: ABCDEF123456")
}

func TestSingleSignedTxJSONWrapped(t *testing.T) {
	ledger := &fakeLedger{}
	gateway := &fakeGateway{}
	b := newTestBroadcaster(t, ledger, gateway, nil)

	err := b.Handle(context.Background(), "+15550001", `{"tx_blob": "`+testFundingBlob+`"}`)
	require.NoError(t, err)
	require.Equal(t, []string{testFundingBlob}, ledger.submitted)
}

func TestParamsRequestWithAddress(t *testing.T) {
	ledger := &fakeLedger{info: xrp.AccountInfo{Sequence: 42, BalanceDrops: 10000000}}
	gateway := &fakeGateway{}
	b := newTestBroadcaster(t, ledger, gateway, nil)

	err := b.Handle(context.Background(), "+15550001", "PARAMS rsGQryyR5zQ5hNm6DCrgeX6DvPQJZhEoWK")
	require.NoError(t, err)
	require.Len(t, gateway.sent, 1)
	require.Equal(t, "SEQ: 42 | LEDGER: 5000 | FEE: 12", gateway.sent[0])
}

func TestParamsRequestDirectoryFallback(t *testing.T) {
	ledger := &fakeLedger{info: xrp.AccountInfo{Sequence: 7}}
	gateway := &fakeGateway{}

	directory := &FileDirectory{entries: map[string]string{"+15550001": "rsGQryyR5zQ5hNm6DCrgeX6DvPQJZhEoWK"}}
	b := newTestBroadcaster(t, ledger, gateway, directory)

	err := b.Handle(context.Background(), "+15550001", "PARAMS")
	require.NoError(t, err)
	require.Contains(t, gateway.sent[0], "SEQ: 7")
}

func TestParamsRequestNoDirectoryEntry(t *testing.T) {
	ledger := &fakeLedger{}
	gateway := &fakeGateway{}
	b := newTestBroadcaster(t, ledger, gateway, nil)

	err := b.Handle(context.Background(), "+15550001", "PARAMS")
	require.NoError(t, err)
	require.Contains(t, gateway.sent[0], "No address on file")
	require.Empty(t, ledger.submitted)
}

func TestUnknownMessageGetsReply(t *testing.T) {
	ledger := &fakeLedger{}
	gateway := &fakeGateway{}
	b := newTestBroadcaster(t, ledger, gateway, nil)

	err := b.Handle(context.Background(), "+15550001", "hello is this the bank")
	require.NoError(t, err)
	require.Empty(t, ledger.submitted)
	require.Len(t, gateway.sent, 1)
	require.Contains(t, gateway.sent[0], "Unsupported format")
}

func TestRepliesFitOneSegment(t *testing.T) {
	ledger := &fakeLedger{
		results: map[string]client.SubmitResult{
			testFundingBlob: {EngineResult: "tesSUCCESS", Hash: strings.Repeat("A", 64), Validated: true},
			testSweepBlob:   {EngineResult: "tecDIR_FULL", Hash: strings.Repeat("B", 64)},
		},
	}
	gateway := &fakeGateway{}
	b := newTestBroadcaster(t, ledger, gateway, nil)

	_ = b.Handle(context.Background(), "+15550001", testFundingBlob+"|"+testSweepBlob)

	for _, reply := range gateway.sent {
		require.LessOrEqual(t, len([]rune(reply)), 160, "reply too long: %q", reply)
	}
}
