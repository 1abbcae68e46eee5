package signature

import (
	"strings"
	"testing"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"event":"test"}`),
		[]byte(""),
		[]byte(`{"event":"bot.status_change","data":{"status":{"code":"in_call_recording"}}}`),
	}
	for _, payload := range payloads {
		sig := Sign("test-webhook-secret", payload)
		if !strings.HasPrefix(sig, "sha256=") {
			t.Fatalf("signature missing prefix: %s", sig)
		}
		if !Verify("test-webhook-secret", payload, sig) {
			t.Fatalf("round trip failed for payload %q", payload)
		}
	}
}

func TestVerifyRejectsBodyMutation(t *testing.T) {
	payload := []byte(`{"event":"transcript.data","data":{}}`)
	sig := Sign("test-webhook-secret", payload)

	for i := range payload {
		mutated := make([]byte, len(payload))
		copy(mutated, payload)
		mutated[i] ^= 0x01
		if Verify("test-webhook-secret", mutated, sig) {
			t.Fatalf("verification passed with byte %d mutated", i)
		}
	}
}

func TestVerifyRejectsSignatureMutation(t *testing.T) {
	payload := []byte(`{"event":"test"}`)
	sig := Sign("test-webhook-secret", payload)

	digest := sig[len(HeaderPrefix):]
	for i := 0; i < len(digest); i++ {
		mutated := []byte(digest)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		if Verify("test-webhook-secret", payload, HeaderPrefix+string(mutated)) {
			t.Fatalf("verification passed with hex digit %d mutated", i)
		}
	}
}

func TestVerifyDifferentSecretsDiffer(t *testing.T) {
	payload := []byte(`{"event":"test"}`)
	if Sign("test-webhook-secret", payload) == Sign("wrong-secret", payload) {
		t.Fatal("signatures with different secrets must differ")
	}
	if Verify("wrong-secret", payload, Sign("test-webhook-secret", payload)) {
		t.Fatal("verification passed with wrong secret")
	}
}

func TestVerifyMalformedHeader(t *testing.T) {
	payload := []byte(`{"event":"test"}`)
	cases := []string{
		"",
		"sha256=",
		"sha256=zzzz",
		"sha1=" + Sign("s", payload)[len(HeaderPrefix):],
		Sign("s", payload)[len(HeaderPrefix):], // digest without prefix
	}
	for _, header := range cases {
		if Verify("s", payload, header) {
			t.Fatalf("verification passed for malformed header %q", header)
		}
	}
	if Verify("", payload, Sign("", payload)) {
		t.Fatal("verification must fail with empty secret")
	}
}
