package connection

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"go-employees/internal/shared/config"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	ErrEmptyConnectionString = errors.New("connection string is empty")
	// ErrInMemorySQLite is returned for in-memory sqlite databases. Every
	// operation opens its own connection, and each one would see a new,
	// empty database.
	ErrInMemorySQLite = errors.New("in-memory sqlite is not supported, use a file path")
)

// Endpoint is the parsed form of an easy-connect string: host[:port]/database.
type Endpoint struct {
	Host     string
	Port     string
	Database string
}

func ParseConnectionString(s, defaultPort string) (Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Endpoint{}, ErrEmptyConnectionString
	}

	hostport, database, _ := strings.Cut(s, "/")
	if hostport == "" {
		return Endpoint{}, fmt.Errorf("connection string %q has no host", s)
	}

	ep := Endpoint{Host: hostport, Port: defaultPort, Database: database}
	if h, p, err := net.SplitHostPort(hostport); err == nil {
		ep.Host, ep.Port = h, p
	}
	ep.Host = strings.Trim(ep.Host, "[]")
	return ep, nil
}

// NewDialector builds the gorm dialector for the configured driver. The
// returned func yields a fresh dialector per call so every operation gets
// its own connection.
func NewDialector(opts config.DatabaseOptions) (func() gorm.Dialector, error) {
	switch opts.Driver {
	case "postgres", "":
		dsn, err := PostgresDSN(opts)
		if err != nil {
			return nil, err
		}
		return func() gorm.Dialector { return postgres.Open(dsn) }, nil
	case "mysql":
		dsn, err := MySQLDSN(opts)
		if err != nil {
			return nil, err
		}
		return func() gorm.Dialector { return mysql.Open(dsn) }, nil
	case "sqlite":
		if strings.TrimSpace(opts.ConnectionString) == "" {
			return nil, ErrEmptyConnectionString
		}
		if isInMemorySQLite(opts.ConnectionString) {
			return nil, ErrInMemorySQLite
		}
		return func() gorm.Dialector { return sqlite.Open(opts.ConnectionString) }, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func PostgresDSN(opts config.DatabaseOptions) (string, error) {
	ep, err := ParseConnectionString(opts.ConnectionString, "5432")
	if err != nil {
		return "", err
	}

	parts := []string{
		"host=" + quoteValue(ep.Host),
		"port=" + quoteValue(ep.Port),
	}
	if opts.User != "" {
		parts = append(parts, "user="+quoteValue(opts.User))
	}
	if opts.Password != "" {
		parts = append(parts, "password="+quoteValue(opts.Password))
	}
	if ep.Database != "" {
		parts = append(parts, "dbname="+quoteValue(ep.Database))
	}
	if opts.SSLMode != "" {
		parts = append(parts, "sslmode="+quoteValue(opts.SSLMode))
	}
	if opts.ConnectTimeout > 0 {
		// libpq takes whole seconds; anything below one second rounds up.
		secs := int((opts.ConnectTimeout + time.Second - 1) / time.Second)
		parts = append(parts, "connect_timeout="+strconv.Itoa(secs))
	}
	return strings.Join(parts, " "), nil
}

func MySQLDSN(opts config.DatabaseOptions) (string, error) {
	ep, err := ParseConnectionString(opts.ConnectionString, "3306")
	if err != nil {
		return "", err
	}

	cfg := mysqldriver.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(ep.Host, ep.Port)
	cfg.DBName = ep.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Timeout = opts.ConnectTimeout
	return cfg.FormatDSN(), nil
}

func isInMemorySQLite(dsn string) bool {
	dsn = strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(dsn, ":memory:") ||
		strings.Contains(dsn, "mode=memory") ||
		strings.HasPrefix(dsn, "file::memory:")
}

// quoteValue quotes a libpq keyword/value when it needs it.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
