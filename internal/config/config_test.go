package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()

	// Load reads .env from the working directory
	wd, err := os.Getwd()
	s.Require().NoError(err)
	s.Require().NoError(os.Chdir(s.dir))
	s.T().Cleanup(func() { _ = os.Chdir(wd) })

	for _, key := range []string{
		"REDIS_ADDR", "REDIS_DB", "PORT", "PUBLIC_STORE", "TIMEZONE", "UNPLUGGED_CONFIG", "DISCORD_TOKEN", "TRUST_PROXY",
	} {
		s.unsetEnv(key)
	}
}

// unsetEnv clears key until the test ends
func (s *ConfigTestSuite) unsetEnv(key string) {
	prev, ok := os.LookupEnv(key)
	s.Require().NoError(os.Unsetenv(key))
	s.T().Cleanup(func() {
		if ok {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := Load("")
	s.Require().NoError(err)

	s.Equal("localhost:6379", cfg.RedisAddr)
	s.Equal(PublicStoreRedis, cfg.PublicStore)
	s.Equal(5*time.Minute, cfg.ReauthWindow)
	s.Equal(30, cfg.RetentionDays)
	s.Equal(60, cfg.DefaultDailyGoalMinutes)
	s.Equal(30*time.Minute, cfg.IdleEviction)
	s.False(cfg.TrustProxy)
}

func (s *ConfigTestSuite) TestMissingFileIsNotAnError() {
	cfg, err := Load(filepath.Join(s.dir, "absent.toml"))
	s.Require().NoError(err)
	s.Equal(30*time.Second, cfg.RotationInterval)
}

func (s *ConfigTestSuite) TestFileTunables() {
	path := s.writeFile("unplugged.toml", `
[stats]
retention-days = 14
default-daily-goal = 45
timezone = "UTC"

[session]
tick-interval = "500ms"
rotation-interval = "1m"
idle-eviction = "10m"

[account]
reauth-window = "2m"

[server]
rate-limit = 2.5
rate-burst = 5
public-store = "firestore"
trust-proxy = true
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal(14, cfg.RetentionDays)
	s.Equal(45, cfg.DefaultDailyGoalMinutes)
	s.Equal(time.UTC, cfg.Timezone)
	s.Equal(500*time.Millisecond, cfg.TickInterval)
	s.Equal(time.Minute, cfg.RotationInterval)
	s.Equal(2*time.Minute, cfg.ReauthWindow)
	s.Equal(2.5, cfg.RateLimit)
	s.Equal(5, cfg.RateBurst)
	s.Equal(PublicStoreFirestore, cfg.PublicStore)
	s.Equal(10*time.Minute, cfg.IdleEviction)
	s.True(cfg.TrustProxy)
}

func (s *ConfigTestSuite) TestTrustProxyFromEnv() {
	s.T().Setenv("TRUST_PROXY", "true")
	cfg, err := Load("")
	s.Require().NoError(err)
	s.True(cfg.TrustProxy)

	s.T().Setenv("TRUST_PROXY", "sometimes")
	_, err = Load("")
	s.Error(err)
}

func (s *ConfigTestSuite) TestEnvironmentOverridesFile() {
	path := s.writeFile("unplugged.toml", "[server]\npublic-store = \"firestore\"\n")
	s.T().Setenv("PUBLIC_STORE", "redis")
	s.T().Setenv("REDIS_ADDR", "redis:6379")
	s.T().Setenv("REDIS_DB", "3")

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal(PublicStoreRedis, cfg.PublicStore)
	s.Equal("redis:6379", cfg.RedisAddr)
	s.Equal(3, cfg.RedisDB)
}

func (s *ConfigTestSuite) TestDotEnv() {
	s.writeFile(".env", "DISCORD_TOKEN=from-dotenv\n")

	cfg, err := Load("")
	s.Require().NoError(err)
	s.Equal("from-dotenv", cfg.DiscordToken)
}

func (s *ConfigTestSuite) TestInvalidValues() {
	s.T().Setenv("REDIS_DB", "zero")
	_, err := Load("")
	s.Error(err)

	s.T().Setenv("REDIS_DB", "")
	s.T().Setenv("PUBLIC_STORE", "postgres")
	_, err = Load("")
	s.Error(err)

	s.T().Setenv("PUBLIC_STORE", "")
	path := s.writeFile("bad.toml", "[session]\ntick-interval = \"soon\"\n")
	_, err = Load(path)
	s.Error(err)
}
