package tenants

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSecretsRoundTrip(t *testing.T) {
	t.Parallel()

	key := []byte("deployment-key")
	in := map[string]string{
		"client_key":     "key",
		"client_secret":  "secret",
		"webhook_secret": "s3cr3t",
	}
	blob, err := encryptSecrets(in, key)
	if err != nil {
		t.Fatal(err)
	}
	if blob[0] != 0x01 {
		t.Fatalf("expected version byte 0x01, got %#x", blob[0])
	}
	out, err := decryptSecrets(blob, key)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecryptSecretsRejects(t *testing.T) {
	t.Parallel()

	key := []byte("deployment-key")
	blob, err := encryptSecrets(map[string]string{"client_key": "key"}, key)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		blob []byte
		key  []byte
	}{
		{"wrong key", blob, []byte("other-key")},
		{"truncated blob", blob[:1], key},
		{"empty blob", nil, key},
		{"unknown version", append([]byte{0x02}, blob[1:]...), key},
		{"tampered ciphertext", append(append([]byte{}, blob[:len(blob)-1]...), blob[len(blob)-1]^0xff), key},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := decryptSecrets(tt.blob, tt.key); err == nil {
				t.Fatal("expected decryption failure")
			}
		})
	}
}
