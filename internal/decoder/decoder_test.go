package decoder

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/goran-ethernal/ChainDecoder/pkg/value"
	"github.com/stretchr/testify/require"
)

const testABI = `[
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}
	]},
	{"type":"event","name":"Named","anonymous":false,"inputs":[
		{"name":"label","type":"string","indexed":true},
		{"name":"delta","type":"int8","indexed":true},
		{"name":"note","type":"string","indexed":false}
	]},
	{"type":"event","name":"Structs","anonymous":false,"inputs":[
		{"name":"pair","type":"tuple","internalType":"struct Vault.Pair","indexed":false,"components":[
			{"name":"amount","type":"uint256"},
			{"name":"label","type":"string"}
		]},
		{"name":"raw","type":"tuple","indexed":false,"components":[
			{"name":"flag","type":"bool"},
			{"name":"tag","type":"bytes4"}
		]}
	]},
	{"type":"event","name":"Lists","anonymous":false,"inputs":[
		{"name":"amounts","type":"uint256[]","indexed":false},
		{"name":"owners","type":"address[2]","indexed":false}
	]},
	{"type":"event","name":"Callback","anonymous":false,"inputs":[
		{"name":"fn","type":"function","indexed":false}
	]},
	{"type":"event","name":"Silent","anonymous":true,"inputs":[
		{"name":"who","type":"address","indexed":true},
		{"name":"amount","type":"uint64","indexed":false}
	]}
]`

func loadTestABI(t *testing.T) abi.ABI {
	t.Helper()

	parsed, err := abi.JSON(strings.NewReader(testABI))
	require.NoError(t, err)
	return parsed
}

func event(t *testing.T, contract abi.ABI, name string) *abi.Event {
	t.Helper()

	ev, ok := contract.Events[name]
	require.True(t, ok, "event %s not found", name)
	return &ev
}

func pack(t *testing.T, ev *abi.Event, values ...any) []byte {
	t.Helper()

	data, err := ev.Inputs.NonIndexed().Pack(values...)
	require.NoError(t, err)
	return data
}

func addressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func TestDecodeLogParts_Transfer(t *testing.T) {
	t.Parallel()

	contract := loadTestABI(t)
	ev := event(t, contract, "Transfer")

	from := common.HexToAddress("0x1111111111111111111111111111111111111111")
	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	amount := big.NewInt(1_000_000)

	topics := []common.Hash{ev.ID, addressTopic(from), addressTopic(to)}
	parts, err := DecodeLogParts(ev, topics, pack(t, ev, amount), true)
	require.NoError(t, err)

	require.Equal(t, []value.Value{value.Address(from), value.Address(to)}, parts.Indexed)
	require.Len(t, parts.Body, 1)
	require.Equal(t, value.Uint{Value: amount, Bits: 256}, parts.Body[0])
}

func TestDecodeLogParts_TopicValidation(t *testing.T) {
	t.Parallel()

	contract := loadTestABI(t)
	ev := event(t, contract, "Transfer")
	addr := addressTopic(common.HexToAddress("0x3333333333333333333333333333333333333333"))
	data := pack(t, ev, big.NewInt(1))

	tests := []struct {
		name     string
		topics   []common.Hash
		validate bool
		wantErr  error
	}{
		{
			name:     "extra topic rejected when validating",
			topics:   []common.Hash{ev.ID, addr, addr, addr},
			validate: true,
			wantErr:  ErrTopicCountMismatch,
		},
		{
			name:     "extra topic tolerated without validation",
			topics:   []common.Hash{ev.ID, addr, addr, addr},
			validate: false,
		},
		{
			name:     "missing topic always rejected",
			topics:   []common.Hash{ev.ID, addr},
			validate: false,
			wantErr:  ErrTopicCountMismatch,
		},
		{
			name:     "no topics",
			topics:   nil,
			validate: false,
			wantErr:  ErrTopicCountMismatch,
		},
		{
			name:     "wrong selector rejected when validating",
			topics:   []common.Hash{common.HexToHash("0x01"), addr, addr},
			validate: true,
			wantErr:  ErrSelectorMismatch,
		},
		{
			name:     "wrong selector ignored without validation",
			topics:   []common.Hash{common.HexToHash("0x01"), addr, addr},
			validate: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parts, err := DecodeLogParts(ev, tt.topics, data, tt.validate)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, parts)
				return
			}
			require.NoError(t, err)
			require.Len(t, parts.Indexed, 2)
		})
	}
}

func TestDecodeLogParts_IndexedReferenceTypesYieldHash(t *testing.T) {
	t.Parallel()

	contract := loadTestABI(t)
	ev := event(t, contract, "Named")

	labelHash := crypto.Keccak256Hash([]byte("hello"))
	minusOne := common.BytesToHash(common.FromHex(strings.Repeat("ff", 32)))

	topics := []common.Hash{ev.ID, labelHash, minusOne}
	parts, err := DecodeLogParts(ev, topics, pack(t, ev, "a note"), true)
	require.NoError(t, err)

	require.Equal(t, value.FixedBytes{Word: labelHash, Size: 32}, parts.Indexed[0])
	require.Equal(t, value.Int{Value: big.NewInt(-1), Bits: 8}, parts.Indexed[1])
	require.Equal(t, []value.Value{value.String("a note")}, parts.Body)
}

func TestDecodeLogParts_Tuples(t *testing.T) {
	t.Parallel()

	contract := loadTestABI(t)
	ev := event(t, contract, "Structs")

	pair := struct {
		Amount *big.Int
		Label  string
	}{Amount: big.NewInt(42), Label: "answer"}
	raw := struct {
		Flag bool
		Tag  [4]byte
	}{Flag: true, Tag: [4]byte{0xca, 0xfe, 0xba, 0xbe}}

	parts, err := DecodeLogParts(ev, []common.Hash{ev.ID}, pack(t, ev, pair, raw), true)
	require.NoError(t, err)
	require.Empty(t, parts.Indexed)
	require.Len(t, parts.Body, 2)

	named, ok := parts.Body[0].(value.CustomStruct)
	require.True(t, ok, "expected custom struct, got %T", parts.Body[0])
	require.Equal(t, "VaultPair", named.Name)
	require.Equal(t, []string{"amount", "label"}, named.PropNames)
	require.Equal(t, []value.Value{value.Uint{Value: big.NewInt(42), Bits: 256}, value.String("answer")}, named.Tuple)

	anon, ok := parts.Body[1].(value.Tuple)
	require.True(t, ok, "expected tuple, got %T", parts.Body[1])
	require.Len(t, anon, 2)
	require.Equal(t, value.Bool(true), anon[0])

	tag, ok := anon[1].(value.FixedBytes)
	require.True(t, ok)
	require.Equal(t, 4, tag.Size)
	require.Equal(t, []byte{0xca, 0xfe, 0xba, 0xbe}, tag.Word[:4])
}

func TestDecodeLogParts_Arrays(t *testing.T) {
	t.Parallel()

	contract := loadTestABI(t)
	ev := event(t, contract, "Lists")

	owners := [2]common.Address{
		common.HexToAddress("0x4444444444444444444444444444444444444444"),
		common.HexToAddress("0x5555555555555555555555555555555555555555"),
	}
	amounts := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}

	parts, err := DecodeLogParts(ev, []common.Hash{ev.ID}, pack(t, ev, amounts, owners), true)
	require.NoError(t, err)

	require.Equal(t, value.Array{
		value.Uint{Value: big.NewInt(1), Bits: 256},
		value.Uint{Value: big.NewInt(2), Bits: 256},
		value.Uint{Value: big.NewInt(3), Bits: 256},
	}, parts.Body[0])
	require.Equal(t, value.FixedArray{value.Address(owners[0]), value.Address(owners[1])}, parts.Body[1])
}

func TestDecodeLogParts_Function(t *testing.T) {
	t.Parallel()

	contract := loadTestABI(t)
	ev := event(t, contract, "Callback")

	var raw [24]byte
	copy(raw[:], common.HexToAddress("0x6666666666666666666666666666666666666666").Bytes())
	copy(raw[20:], []byte{0x12, 0x34, 0x56, 0x78})

	data := make([]byte, 32)
	copy(data, raw[:])

	parts, err := DecodeLogParts(ev, []common.Hash{ev.ID}, data, true)
	require.NoError(t, err)
	require.Equal(t, []value.Value{value.NewFunction(raw)}, parts.Body)
}

func TestDecodeLogParts_Anonymous(t *testing.T) {
	t.Parallel()

	contract := loadTestABI(t)
	ev := event(t, contract, "Silent")
	who := common.HexToAddress("0x7777777777777777777777777777777777777777")

	parts, err := DecodeLogParts(ev, []common.Hash{addressTopic(who)}, pack(t, ev, uint64(9)), true)
	require.NoError(t, err)
	require.Equal(t, []value.Value{value.Address(who)}, parts.Indexed)
	require.Equal(t, []value.Value{value.Uint{Value: big.NewInt(9), Bits: 64}}, parts.Body)
}

func TestDecodeLogParts_MalformedData(t *testing.T) {
	t.Parallel()

	contract := loadTestABI(t)
	ev := event(t, contract, "Transfer")
	addr := addressTopic(common.HexToAddress("0x8888888888888888888888888888888888888888"))

	_, err := DecodeLogParts(ev, []common.Hash{ev.ID, addr, addr}, []byte{0x01, 0x02}, true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unpack data")

	_, err = DecodeLogParts(ev, []common.Hash{ev.ID, addr, addr}, nil, true)
	require.Error(t, err)
}

func TestDecodeLogParts_NilEvent(t *testing.T) {
	t.Parallel()

	_, err := DecodeLogParts(nil, nil, nil, true)
	require.Error(t, err)
}
