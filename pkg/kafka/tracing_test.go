package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestHeaderCarrier_SetAndGet(t *testing.T) {
	headers := []kafka.Header{{Key: "existing", Value: []byte("value1")}}
	carrier := &headerCarrier{headers: &headers}

	assert.Equal(t, "value1", carrier.Get("existing"))
	assert.Empty(t, carrier.Get("missing"))

	carrier.Set("new-key", "new-value")
	assert.Equal(t, "new-value", carrier.Get("new-key"))

	carrier.Set("existing", "updated")
	assert.Equal(t, "updated", carrier.Get("existing"))
	assert.Len(t, headers, 2)
}

func TestHeaderCarrier_Keys(t *testing.T) {
	headers := []kafka.Header{
		{Key: "a", Value: []byte("1")},
		{Key: "b", Value: []byte("2")},
	}
	carrier := &headerCarrier{headers: &headers}
	assert.ElementsMatch(t, []string{"a", "b"}, carrier.Keys())

	empty := []kafka.Header{}
	assert.Empty(t, (&headerCarrier{headers: &empty}).Keys())
}
