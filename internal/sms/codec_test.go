package sms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kabylesystem/xrpl-hackaton/internal/model"
)

const testBlob = "12000022000000002400C2F920201B00C3457E6140000000002DC6C068400000000000000C7321ED425294A1D110D59CEAC368DC07A01B6C99FA339884483A8EE4BF19317128C8ED7440AABBCCDD"

const testEnvelope = "c2FsdHNhbHRzYWx0c2FsdA==:aXZpdml2aXZpdml2aXZpdg==:Y2lwaGVydGV4dGNpcGhlcg=="

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Kind
	}{
		{"claim relay", testBlob + "|" + testBlob, KindClaimRelay},
		{"send message", FormatSend(testEnvelope, "first pet", testBlob, "3"), KindSendMessage},
		{"params reply", "SEQ: 42 | LEDGER: 5000 | FEE: 12", KindParamsReply},
		{"params request with address", "PARAMS rsGQryyR5zQ5hNm6DCrgeX6DvPQJZhEoWK", KindParamsRequest},
		{"bare params request", "PARAMS", KindParamsRequest},
		{"free text", "hey did you get my payment", KindUnknown},
		{"lone blob is not a classified shape", testBlob, KindUnknown},
		{"three pipe parts", testBlob + "|" + testBlob + "|" + testBlob, KindUnknown},
		{"short hex is not a blob", "DEADBEEF|DEADBEEF", KindUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.text))
		})
	}
}

// A send message contains hex runs and numbers; the more specific shapes
// must win over the weaker ones.
func TestClassifyPrecedence(t *testing.T) {
	sendMsg := FormatSend(testEnvelope, "SEQ: 1 LEDGER: 2 FEE: 3", testBlob, "3")
	require.Equal(t, KindSendMessage, Classify(sendMsg))

	relay := testBlob + "|" + testBlob
	require.Equal(t, KindClaimRelay, Classify(relay))
}

func TestParseSendRoundTrip(t *testing.T) {
	msg := FormatSend(testEnvelope, "first pet", testBlob, "3.5")

	ctx := ParseSend(msg)
	require.NotNil(t, ctx)
	require.Equal(t, testEnvelope, ctx.Envelope)
	require.Equal(t, testBlob, ctx.FundingTxBlob)
	require.Equal(t, "first pet", ctx.Hint)
	require.Equal(t, "3.5", ctx.Amount)
}

func TestParseSendToleratesSurroundingText(t *testing.T) {
	msg := "Fwd: Fwd: check this out\n\n" + FormatSend(testEnvelope, "pet", testBlob, "1") + "\n\nsent from my phone"
	ctx := ParseSend(msg)
	require.NotNil(t, ctx)
	require.Equal(t, testEnvelope, ctx.Envelope)
	require.Equal(t, testBlob, ctx.FundingTxBlob)
}

func TestParseSendMissingPieces(t *testing.T) {
	require.Nil(t, ParseSend("Here is 3 XRP. Encrypted Key: "+testEnvelope))
	require.Nil(t, ParseSend("Transaction Data: "+testBlob))
	require.Nil(t, ParseSend(""))
}

func TestParamsReplyRoundTrip(t *testing.T) {
	reply := FormatParamsReply(model.OfflineParameters{Sequence: 42, LedgerIndex: 5000, Fee: "12"})
	require.Equal(t, "SEQ: 42 | LEDGER: 5000 | FEE: 12", reply)

	params := ParseParamsReply(reply)
	require.NotNil(t, params)
	require.Equal(t, uint32(42), params.Sequence)
	require.Equal(t, uint32(5000), params.LedgerIndex)
	require.Equal(t, "12", params.Fee)
}

func TestParseParamsReplyIncomplete(t *testing.T) {
	require.Nil(t, ParseParamsReply("SEQ: 42 | LEDGER: 5000"))
	require.Nil(t, ParseParamsReply("FEE: 12"))
	require.Nil(t, ParseParamsReply("nothing here"))
}

func TestParseParamsRequest(t *testing.T) {
	address, ok := ParseParamsRequest("PARAMS rsGQryyR5zQ5hNm6DCrgeX6DvPQJZhEoWK")
	require.True(t, ok)
	require.Equal(t, "rsGQryyR5zQ5hNm6DCrgeX6DvPQJZhEoWK", address)

	address, ok = ParseParamsRequest("PARAMS")
	require.True(t, ok)
	require.Empty(t, address)

	_, ok = ParseParamsRequest("PARAMS one two")
	require.False(t, ok)
}

func TestFormatClaimRelay(t *testing.T) {
	both := FormatClaimRelay(model.RelayMessage{FundingBlob: "AA", SweepBlob: "BB"})
	require.Equal(t, "AA|BB", both)

	single := FormatClaimRelay(model.RelayMessage{FundingBlob: "AA"})
	require.Equal(t, "AA", single)
}

func TestSignedTxBlobDetection(t *testing.T) {
	require.True(t, IsSignedTxBlob(testBlob))
	require.True(t, IsSignedTxBlob("  "+testBlob+"  "))
	require.True(t, IsSignedTxBlob(`{"tx_blob": "`+testBlob+`"}`))
	require.False(t, IsSignedTxBlob("DEADBEEF"))
	require.False(t, IsSignedTxBlob("not hex at all"))
}

func TestExtractTxBlob(t *testing.T) {
	require.Equal(t, testBlob, ExtractTxBlob(testBlob))
	require.Equal(t, testBlob, ExtractTxBlob(`{"tx_blob": "`+testBlob+`"}`))
	require.Equal(t, testBlob, ExtractTxBlob("  "+testBlob+"\n"))
}

func TestClip(t *testing.T) {
	require.Equal(t, "abc", Clip("abc", 160))
	require.Len(t, Clip(strings.Repeat("x", 500), MaxReplyLen), MaxReplyLen)
}
