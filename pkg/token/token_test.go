package token

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecretKey(t *testing.T) {
	a, err := GenerateSecretKey()
	require.NoError(t, err)
	b, err := GenerateSecretKey()
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestUploadParams(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewSigner([]byte("secret"), 30*time.Minute)
	s.now = func() time.Time { return now }

	p := s.Upload()
	_, err := uuid.Parse(p.Token)
	assert.NoError(t, err)
	assert.EqualValues(t, now.Add(30*time.Minute).Unix(), p.Expire)
	assert.Equal(t, SignUpload([]byte("secret"), p.Token, p.Expire), p.Signature)
	assert.NotEqual(t, SignUpload([]byte("other"), p.Token, p.Expire), p.Signature)

	q := s.Upload()
	assert.NotEqual(t, p.Token, q.Token)
}

func TestImageKitSignatureMatchesReference(t *testing.T) {
	const (
		key    = "private_key_test"
		tok    = "d1a4d4f2-0b7e-4c55-9b3a-2a8e5f7c9e10"
		expire = int64(1655379249)
	)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(tok + strconv.FormatInt(expire, 10)))
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, SignImageKit(key, tok, expire))
	assert.Len(t, SignImageKit(key, tok, expire), 40)
}
