package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Params 是前端直传图片时携带的一组签名参数。
// expire 为 Unix 秒，过期后签名失效。
type Params struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// GenerateSecretKey 生成一个密码学安全的32字节随机密钥。
// 未配置签名密钥时使用，进程重启后之前签发的签名全部失效。
func GenerateSecretKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("无法生成安全的密钥: %w", err)
	}
	return key, nil
}

// Signer 签发短期有效的上传签名
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret []byte, ttl time.Duration) *Signer {
	return &Signer{secret: secret, ttl: ttl, now: time.Now}
}

func (s *Signer) next() (string, int64) {
	return uuid.NewString(), s.now().Add(s.ttl).Unix()
}

// Upload 返回 HMAC-SHA256(expire + token) 的 Base64 签名
func (s *Signer) Upload() Params {
	tok, expire := s.next()
	return Params{Token: tok, Expire: expire, Signature: SignUpload(s.secret, tok, expire)}
}

// ImageKit 按 ImageKit 的约定返回 HMAC-SHA1(token + expire) 的十六进制签名
func (s *Signer) ImageKit(privateKey string) Params {
	tok, expire := s.next()
	return Params{Token: tok, Expire: expire, Signature: SignImageKit(privateKey, tok, expire)}
}

func SignUpload(secret []byte, tok string, expire int64) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(expire, 10) + tok))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func SignImageKit(privateKey, tok string, expire int64) string {
	mac := hmac.New(sha1.New, []byte(privateKey))
	mac.Write([]byte(tok + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
