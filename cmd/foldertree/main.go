package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ProtonMail/foldertree"
	"github.com/ProtonMail/foldertree/directory"
	"github.com/ProtonMail/foldertree/session"
	"github.com/ProtonMail/foldertree/version"
	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	configFlag   = flag.String("config", "", "Path of a YAML configuration file.")
	serverFlag   = flag.String("server", "", "Address of the IMAP server.")
	userFlag     = flag.String("user", "", "Username.")
	passFlag     = flag.String("pass", "", "Password.")
	tlsFlag      = flag.Bool("tls", false, "Connect with TLS.")
	sessionFlag  = flag.String("session", "", "Key under which the tree is stored.")
	storeFlag    = flag.String("store", "", "Store kind: memory, disk, badger, sqlite, postgres or s3.")
	storeDSNFlag = flag.String("store-dsn", "", "Directory, data source name or bucket of the store.")
	expandFlag   = flag.Bool("expand", false, "Expand every mailbox before printing.")
	allFlag      = flag.Bool("all", false, "Discover the whole namespace when the tree is built.")
	unsubFlag    = flag.Bool("unsub", false, "Show unsubscribed mailboxes.")
	profileFlag  = flag.String("profile", "", "Write a cpu, mem or block profile.")
	versionFlag  = flag.Bool("version", false, "Print the version and exit.")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Current)
		return
	}

	if level, err := logrus.ParseLevel(os.Getenv("FOLDERTREE_LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	switch *profileFlag {
	case "cpu":
		defer profile.Start(profile.CPUProfile).Stop()

	case "mem":
		defer profile.Start(profile.MemProfile, profile.MemProfileAllocs).Stop()

	case "block":
		defer profile.Start(profile.BlockProfile).Stop()
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}

	applyFlags(&cfg)

	if err := run(context.Background(), cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to print tree")
	}
}

func applyFlags(cfg *Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.Server = *serverFlag
		case "user":
			cfg.User = *userFlag
		case "pass":
			cfg.Pass = *passFlag
		case "tls":
			cfg.TLS = *tlsFlag
		case "session":
			cfg.Session = *sessionFlag
		case "store":
			cfg.Store.Kind = *storeFlag
		case "store-dsn":
			cfg.Store.DSN = *storeDSNFlag
		}
	})
}

func run(ctx context.Context, cfg Config) error {
	c, err := dial(cfg)
	if err != nil {
		return err
	}

	defer func() {
		if err := c.Logout(); err != nil {
			logrus.WithError(err).Warn("Failed to log out")
		}
	}()

	delimiter, err := getDelimiter(c)
	if err != nil {
		return err
	}

	var dir directory.Directory = directory.NewIMAPClient(c)

	if cfg.Rate > 0 {
		dir = directory.NewLimited(dir, rate.NewLimiter(rate.Limit(cfg.Rate), 1))
	}

	store, err := newStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	defer func() {
		if err := store.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close store")
		}
	}()

	initMode := foldertree.InitSubscribed

	if *unsubFlag {
		initMode = foldertree.InitUnsubscribed
	}

	if *allFlag {
		initMode |= foldertree.InitFetchAll
	}

	manager := session.NewManager(store, func(context.Context, string) (directory.Directory, error) {
		return dir, nil
	}, session.WithTreeOptions(
		foldertree.WithDelimiter(delimiter),
		foldertree.WithPrefix(cfg.Prefix),
		foldertree.WithInitMode(initMode),
		foldertree.WithOpenMode(foldertree.OpenUser),
		foldertree.WithLabelDecoder(foldertree.UTF7Labels),
	))

	handle, err := manager.Open(ctx, cfg.Session)
	if err != nil {
		return err
	}

	defer func() {
		if err := handle.Close(ctx); err != nil {
			logrus.WithError(err).Error("Failed to save tree")
		}
	}()

	tree := handle.Tree()

	tree.ShowUnsubscribed(ctx, *unsubFlag)

	if *expandFlag {
		tree.ExpandAll(ctx)
	}

	printTree(ctx, tree)

	return nil
}

func dial(cfg Config) (*client.Client, error) {
	var (
		c   *client.Client
		err error
	)

	if cfg.TLS {
		c, err = client.DialTLS(cfg.Server, nil)
	} else {
		c, err = client.Dial(cfg.Server)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to %v: %w", cfg.Server, err)
	}

	if err := c.Login(cfg.User, cfg.Pass); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	return c, nil
}

// getDelimiter asks the server for its hierarchy delimiter.
func getDelimiter(c *client.Client) (string, error) {
	ch := make(chan *goimap.MailboxInfo, 1)
	done := make(chan error, 1)

	go func() { done <- c.List("", "", ch) }()

	delimiter := "/"

	for info := range ch {
		if info.Delimiter != "" {
			delimiter = info.Delimiter
		}
	}

	if err := <-done; err != nil {
		return "", fmt.Errorf("failed to get delimiter: %w", err)
	}

	return delimiter, nil
}

func printTree(ctx context.Context, tree *foldertree.Tree) {
	c := tree.Cursor(ctx, 0)

	for ok := c.Reset(ctx); ok; ok = c.Next(ctx) {
		n, _ := c.Current()

		var mark string

		switch {
		case n.Open():
			mark = "-"

		case tree.HasChildren(ctx, n.Name, true):
			mark = "+"

		default:
			mark = " "
		}

		fmt.Printf("%v%v %v\n", strings.Repeat("  ", n.Level), mark, n.Label)
	}
}
