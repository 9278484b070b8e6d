package app

import (
	"fmt"
	"sync"

	"github.com/ynpsss/labrador/internal/audit"
	authDomain "github.com/ynpsss/labrador/internal/auth/domain"
	authService "github.com/ynpsss/labrador/internal/auth/service"
	envelopeDomain "github.com/ynpsss/labrador/internal/envelope/domain"
	envelopeHTTP "github.com/ynpsss/labrador/internal/envelope/http"
	envelopeService "github.com/ynpsss/labrador/internal/envelope/service"
	envelopeUseCase "github.com/ynpsss/labrador/internal/envelope/usecase"
)

// envelopeComponents holds lazily initialized envelope module dependencies.
type envelopeComponents struct {
	registry        *envelopeDomain.Registry
	clientSet       *authDomain.ClientSet
	secretService   authService.SecretService
	auditSigner     audit.Signer
	envelopeUseCase envelopeUseCase.EnvelopeUseCase
	envelopeHandler *envelopeHTTP.EnvelopeHandler

	registryInit        sync.Once
	clientSetInit       sync.Once
	secretServiceInit   sync.Once
	auditSignerInit     sync.Once
	envelopeUseCaseInit sync.Once
	envelopeHandlerInit sync.Once
}

// Registry returns the envelope app registry parsed from configuration.
func (c *Container) Registry() (*envelopeDomain.Registry, error) {
	var err error
	c.envelope.registryInit.Do(func() {
		c.envelope.registry, err = c.initRegistry()
		if err != nil {
			c.initErrors["registry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["registry"]; exists {
		return nil, storedErr
	}
	return c.envelope.registry, nil
}

// ClientSet returns the API client set parsed from configuration.
func (c *Container) ClientSet() (*authDomain.ClientSet, error) {
	var err error
	c.envelope.clientSetInit.Do(func() {
		c.envelope.clientSet, err = c.initClientSet()
		if err != nil {
			c.initErrors["clientSet"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["clientSet"]; exists {
		return nil, storedErr
	}
	return c.envelope.clientSet, nil
}

// SecretService returns the secret hashing service.
func (c *Container) SecretService() authService.SecretService {
	c.envelope.secretServiceInit.Do(func() {
		c.envelope.secretService = authService.NewSecretService()
	})
	return c.envelope.secretService
}

// AuditSigner returns the audit record signer.
func (c *Container) AuditSigner() (audit.Signer, error) {
	var err error
	c.envelope.auditSignerInit.Do(func() {
		c.envelope.auditSigner, err = c.initAuditSigner()
		if err != nil {
			c.initErrors["auditSigner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditSigner"]; exists {
		return nil, storedErr
	}
	return c.envelope.auditSigner, nil
}

// EnvelopeUseCase returns the envelope use case decorated with metrics and audit.
func (c *Container) EnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	var err error
	c.envelope.envelopeUseCaseInit.Do(func() {
		c.envelope.envelopeUseCase, err = c.initEnvelopeUseCase()
		if err != nil {
			c.initErrors["envelopeUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeUseCase"]; exists {
		return nil, storedErr
	}
	return c.envelope.envelopeUseCase, nil
}

// EnvelopeHandler returns the envelope HTTP handler.
func (c *Container) EnvelopeHandler() (*envelopeHTTP.EnvelopeHandler, error) {
	var err error
	c.envelope.envelopeHandlerInit.Do(func() {
		c.envelope.envelopeHandler, err = c.initEnvelopeHandler()
		if err != nil {
			c.initErrors["envelopeHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeHandler"]; exists {
		return nil, storedErr
	}
	return c.envelope.envelopeHandler, nil
}

// initRegistry parses the envelope app registry from the APPS configuration.
func (c *Container) initRegistry() (*envelopeDomain.Registry, error) {
	registry, err := envelopeDomain.NewRegistryFromJSON(c.config.Apps)
	if err != nil {
		return nil, fmt.Errorf("failed to load app registry: %w", err)
	}
	return registry, nil
}

// initClientSet parses the API client set from the AUTH_CLIENTS configuration.
func (c *Container) initClientSet() (*authDomain.ClientSet, error) {
	clientSet, err := authDomain.NewClientSetFromJSON(c.config.AuthClients)
	if err != nil {
		return nil, fmt.Errorf("failed to load auth clients: %w", err)
	}
	return clientSet, nil
}

// initAuditSigner creates the audit record signer from the AUDIT_KEY configuration.
func (c *Container) initAuditSigner() (audit.Signer, error) {
	if c.config.AuditKey == "" {
		return nil, nil
	}

	signer, err := audit.NewSigner([]byte(c.config.AuditKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create audit signer: %w", err)
	}
	return signer, nil
}

// initEnvelopeUseCase creates the envelope use case with metrics and audit decorators.
func (c *Container) initEnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	registry, err := c.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry for envelope use case: %w", err)
	}

	useCase := envelopeUseCase.NewEnvelopeUseCase(registry, envelopeService.NewCryptoRandomSource())

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for envelope use case: %w", err)
	}
	useCase = envelopeUseCase.NewEnvelopeUseCaseWithMetrics(useCase, businessMetrics)

	auditSigner, err := c.AuditSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit signer for envelope use case: %w", err)
	}
	if auditSigner != nil {
		useCase = envelopeUseCase.NewEnvelopeUseCaseWithAudit(useCase, auditSigner, c.Logger())
	}

	return useCase, nil
}

// initEnvelopeHandler creates the envelope HTTP handler.
func (c *Container) initEnvelopeHandler() (*envelopeHTTP.EnvelopeHandler, error) {
	useCase, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for handler: %w", err)
	}

	return envelopeHTTP.NewEnvelopeHandler(useCase, c.Logger()), nil
}
