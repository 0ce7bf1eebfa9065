package store

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/go-sql-driver/mysql"
	"github.com/simple-als/wdals/common"
	"github.com/simple-als/wdals/handshake"
	log "github.com/sirupsen/logrus"
	"net"
	"regexp"
	"strconv"
	"time"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// MySQLStore shares tickets between client processes.
type MySQLStore struct {
	db    *sql.DB
	table string
	now   func() time.Time
}

func mysqlConfig(cfg *MySQLConfig) *mysql.Config {
	c := mysql.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.ServerHost, strconv.Itoa(cfg.ServerPort))
	c.DBName = cfg.Database
	return c
}

func (s *MySQLStore) Put(ctx context.Context, host string, result *handshake.Result) error {
	query := fmt.Sprintf("REPLACE INTO `%s` (host, ticket_key, ticket_expire, session_ticket) VALUES (?, ?, ?, ?)", s.table)
	if _, err := s.db.ExecContext(ctx, query, host, result.TicketKey, result.TicketExpire, result.SessionTicket); err != nil {
		return common.NewError("failed to store ticket of " + host).Base(err)
	}
	return nil
}

func (s *MySQLStore) Get(ctx context.Context, host string) (*handshake.Result, error) {
	query := fmt.Sprintf("SELECT ticket_key, ticket_expire, session_ticket FROM `%s` WHERE host = ? AND ticket_expire > ?", s.table)
	r := &handshake.Result{}
	err := s.db.QueryRowContext(ctx, query, host, s.now().Unix()).Scan(&r.TicketKey, &r.TicketExpire, &r.SessionTicket)
	switch {
	case err == sql.ErrNoRows:
		return nil, ErrNotFound
	case err != nil:
		return nil, common.NewError("failed to load ticket of " + host).Base(err)
	}
	return r, nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func NewMySQLStore(ctx context.Context, cfg *MySQLConfig) (*MySQLStore, error) {
	if !tableName.MatchString(cfg.Table) {
		return nil, common.NewError("invalid mysql table name " + cfg.Table)
	}
	connector, err := mysql.NewConnector(mysqlConfig(cfg))
	if err != nil {
		return nil, common.NewError("invalid mysql config").Base(err)
	}
	db := sql.OpenDB(connector)
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"host VARCHAR(255) NOT NULL PRIMARY KEY, "+
		"ticket_key VARCHAR(64) NOT NULL, "+
		"ticket_expire INT UNSIGNED NOT NULL, "+
		"session_ticket TEXT NOT NULL)", cfg.Table)
	if _, err := db.ExecContext(ctx, create); err != nil {
		db.Close()
		return nil, common.NewError("failed to prepare mysql table " + cfg.Table).Base(err)
	}
	log.Debugf("mysql ticket store connected to %s/%s", cfg.ServerHost, cfg.Database)
	return &MySQLStore{
		db:    db,
		table: cfg.Table,
		now:   time.Now,
	}, nil
}
