package webhook

import "testing"

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	secret := "s3cr3t"
	body := []byte(`{"id":1}`)

	tests := []struct {
		name     string
		body     []byte
		provided string
		secret   string
		want     bool
	}{
		{
			name:     "valid signature",
			body:     body,
			provided: Sign(body, secret),
			secret:   secret,
			want:     true,
		},
		{
			name:     "body tampered after signing",
			body:     []byte(`{"id":2}`),
			provided: Sign(body, secret),
			secret:   secret,
			want:     false,
		},
		{
			name:     "signature from different secret",
			body:     body,
			provided: Sign(body, "other"),
			secret:   secret,
			want:     false,
		},
		{
			name:     "empty signature",
			body:     body,
			provided: "",
			secret:   secret,
			want:     false,
		},
		{
			name:     "garbage signature",
			body:     body,
			provided: "not-base64-!!",
			secret:   secret,
			want:     false,
		},
		{
			name:     "empty secret",
			body:     body,
			provided: Sign(body, secret),
			secret:   "",
			want:     false,
		},
		{
			name:     "empty body signed correctly",
			body:     nil,
			provided: Sign(nil, secret),
			secret:   secret,
			want:     true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := VerifySignature(tt.body, tt.provided, tt.secret); got != tt.want {
				t.Fatalf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignDependsOnExactBytes(t *testing.T) {
	t.Parallel()

	secret := "s3cr3t"
	// Semantically equal JSON with different byte layout must not verify.
	a := []byte(`{"id":1}`)
	b := []byte(`{"id": 1}`)
	if VerifySignature(b, Sign(a, secret), secret) {
		t.Fatal("signature over reformatted body must not verify")
	}
}
