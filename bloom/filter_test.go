package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/wikitxt/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("蔡依林"))

	f.Add("蔡依林")

	assert.True(t, f.Test("蔡依林"))
	assert.False(t, f.Test("臺北市"))
}

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.TestAndAdd("蔡依林"))
	assert.True(t, f.TestAndAdd("蔡依林"))
	assert.True(t, f.Test("蔡依林"))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const n = 10000
	f := bloom.NewFilter(n, 0.01)
	for i := range n {
		f.Add(fmt.Sprintf("條目%d", i))
	}

	var falsePositives int
	for i := range n {
		if f.Test(fmt.Sprintf("其他%d", i)) {
			falsePositives++
		}
	}

	// 1% requested; allow generous slack.
	assert.Less(t, falsePositives, n*3/100)
}
