package signal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_ZeroIsAbsent(t *testing.T) {
	var v Value
	assert.True(t, v.IsAbsent())
	assert.Equal(t, KindAbsent, v.Kind())

	_, ok := v.AsNumber()
	assert.False(t, ok)
	_, ok = v.AsBool()
	assert.False(t, ok)
}

func TestValue_Kinds(t *testing.T) {
	n, ok := Number(0.32).AsNumber()
	require.True(t, ok)
	assert.Equal(t, 0.32, n)

	b, ok := Bool(true).AsBool()
	require.True(t, ok)
	assert.True(t, b)

	c, ok := Category("monthly").AsCategory()
	require.True(t, ok)
	assert.Equal(t, "monthly", c)

	// Zero number is present, not absent.
	assert.False(t, Number(0).IsAbsent())
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Number(1.5).Equal(Number(1.5)))
	assert.False(t, Number(1.5).Equal(Number(2)))
	assert.False(t, Number(0).Equal(Absent()))
	assert.False(t, Bool(false).Equal(Absent()))
	assert.True(t, Absent().Equal(Value{}))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "absent", Absent().String())
	assert.Equal(t, "75", Number(75).String())
	assert.Equal(t, "0.32", Number(0.32).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "weekly", Category("weekly").String())
}

func TestValue_JSONRoundTrip(t *testing.T) {
	cases := []Value{Absent(), Number(75), Number(0), Bool(false), Category("irregular")}
	for _, want := range cases {
		data, err := json.Marshal(want)
		require.NoError(t, err)

		var got Value
		require.NoError(t, json.Unmarshal(data, &got))
		assert.True(t, want.Equal(got), "round-trip of %s", want)
	}
}

func TestValue_UnmarshalRejectsUnknownKind(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{"kind":"complex"}`), &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown signal value kind")
}

func TestMap_GetMissingIsAbsent(t *testing.T) {
	m := Map{SubscriptionShare: Number(0.32)}
	assert.True(t, m.Get("credit_max_utilization_pct").IsAbsent())
	assert.False(t, m.Get(SubscriptionShare).IsAbsent())
}

func TestMap_NamesSorted(t *testing.T) {
	m := Map{"b": Number(1), "a": Number(2), "c": Number(3)}
	assert.Equal(t, []string{"a", "b", "c"}, m.Names())
}
