// Package signer 负责签名请求的规范化序列化与 HMAC 签名。
//
// 交易所会用同一把密钥对收到的字节重新计算签名并比对, 所以客户端必须
// 固定一种序列化形式并在所有签名请求中保持一致: 这里采用 urlencoded
// 表单串, 字段顺序由各端点的 payload 结构体声明顺序决定, sig 字段
// 本身不参与签名。
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Field 是签名payload中的一个键值对
type Field struct {
	Key   string
	Value string
}

// Payload 是按固定顺序排列的字段序列。顺序是签名契约的一部分,
// 不能用 map 表达。
type Payload []Field

// Encode 将payload序列化为规范的表单串, 即参与签名的字节
func (p Payload) Encode() string {
	var b strings.Builder
	for i, f := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return b.String()
}

// Signer 持有共享密钥, 对序列化后的payload计算签名
type Signer struct {
	secret []byte
}

// New 创建一个Signer
func New(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign 对规范序列化后的payload计算HMAC-SHA256签名, 返回十六进制字符串。
// 相同的payload永远得到相同的签名。
func (s *Signer) Sign(p Payload) string {
	return s.SignString(p.Encode())
}

// SignString 对已经序列化好的字符串计算签名
func (s *Signer) SignString(data string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
