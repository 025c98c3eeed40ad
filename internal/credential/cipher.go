package credential

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// KeySize is the AES-256 key size in bytes.
const KeySize = 32

// Encrypt encrypts plaintext with AES-256-CBC and PKCS#7 padding.
func Encrypt(plaintext, key, iv []byte) ([]byte, error) {
	block, err := newBlock(key, iv)
	if err != nil {
		return nil, err
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt reverses Encrypt.
func Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	block, err := newBlock(key, iv)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d",
			ErrDecryptionFailed, len(ciphertext), aes.BlockSize)
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func newBlock(key, iv []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key is %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: iv is %d bytes, want %d", ErrInvalidKey, len(iv), aes.BlockSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return block, nil
}

// pkcs7Pad appends PKCS#7 padding. A full block is added when src is
// already aligned.
func pkcs7Pad(src []byte, blockSize int) []byte {
	padding := blockSize - len(src)%blockSize
	out := make([]byte, len(src), len(src)+padding)
	copy(out, src)
	return append(out, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(src []byte, blockSize int) ([]byte, error) {
	n := len(src)
	if n == 0 || n%blockSize != 0 {
		return nil, fmt.Errorf("%w: bad padded length %d", ErrDecryptionFailed, n)
	}
	padding := int(src[n-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("%w: invalid padding byte %d", ErrDecryptionFailed, padding)
	}
	for _, b := range src[n-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("%w: malformed padding", ErrDecryptionFailed)
		}
	}
	return src[:n-padding], nil
}
