/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	"fmt"
	"os"
	"strings"
)

type SASLMechanism string

const (
	SASLTypePlaintext   SASLMechanism = "PLAIN"
	SASLTypeSCRAMSHA256 SASLMechanism = "SCRAM-SHA-256"
	SASLTypeSCRAMSHA512 SASLMechanism = "SCRAM-SHA-512"
)

// SASL authenticates a kafka client.
type SASL struct {
	Mechanism SASLMechanism `json:"mechanism"`
	User      string        `json:"user"`
	// +optional
	Password string `json:"password,omitempty"`
	// PasswordFile is read for the password when Password is empty, such as a mounted secret.
	// +optional
	PasswordFile string `json:"passwordFile,omitempty"`
}

// GetPassword returns the inline password or the trimmed content of the password file.
func (s *SASL) GetPassword() (string, error) {
	if s.Password != "" || s.PasswordFile == "" {
		return s.Password, nil
	}
	b, err := os.ReadFile(s.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("failed to read sasl password file %s: %w", s.PasswordFile, err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *SASL) validate() error {
	if s == nil {
		return nil
	}
	switch s.Mechanism {
	case SASLTypePlaintext, SASLTypeSCRAMSHA256, SASLTypeSCRAMSHA512:
	default:
		return fmt.Errorf("unsupported sasl mechanism %q", s.Mechanism)
	}
	if s.User == "" || (s.Password == "" && s.PasswordFile == "") {
		return fmt.Errorf("sasl needs a user and a password or password file")
	}
	return nil
}
