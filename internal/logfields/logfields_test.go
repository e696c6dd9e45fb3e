package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpersUseCanonicalKeys(t *testing.T) {
	assert.Equal(t, KeyInvocation, Invocation("abc").Key)
	assert.Equal(t, KeyImage, Image("hello").Key)
	assert.Equal(t, KeyPid, Pid(42).Key)
	assert.Equal(t, KeyPhase, Phase("analysis").Key)
}

func TestErrorHelper(t *testing.T) {
	attr := Error(errors.New("boom"))
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, "boom", attr.Value.String())
	assert.Equal(t, "", Error(nil).Value.String())
}
