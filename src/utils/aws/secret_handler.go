package aws_handler

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

type SecretManager struct {
	svc *secretsmanager.SecretsManager
}

func NewSecretManager(svc *secretsmanager.SecretsManager) *SecretManager {
	return &SecretManager{svc: svc}
}

func (s *SecretManager) GetSecretValue(secretId string) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretId),
	}

	result, err := s.svc.GetSecretValue(input)
	if err != nil {
		return "", err
	}

	return *result.SecretString, nil
}

// GetSecretMap fetches a JSON secret and decodes it into a string map.
func (s *SecretManager) GetSecretMap(secretId string) (map[string]string, error) {
	raw, err := s.GetSecretValue(secretId)
	if err != nil {
		return nil, err
	}

	secrets := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &secrets); err != nil {
		return nil, err
	}
	return secrets, nil
}

func (s *SecretManager) CreateSecret(name, value string) error {
	input := &secretsmanager.CreateSecretInput{
		Name:         aws.String(name),
		SecretString: aws.String(value),
	}

	_, err := s.svc.CreateSecret(input)

	return err
}
