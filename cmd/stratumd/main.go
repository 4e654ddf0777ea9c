package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ellswift"

	"github.com/chimera-pool/sv2-noise-core/internal/config"
	"github.com/chimera-pool/sv2-noise-core/internal/stratum/v2/mining"
	"github.com/chimera-pool/sv2-noise-core/internal/stratum/v2/noise"
)

func main() {
	configPath := flag.String("config", "", "path to node YAML config (optional)")
	generate := flag.Bool("generate", false, "generate a fresh authority/static keypair and certificate, print them, and exit")
	flag.Parse()

	if *generate {
		runGenerate()
		return
	}

	cfg := config.DefaultNodeConfig()
	if *configPath != "" {
		loaded, err := config.LoadNodeConfig(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	staticKP, cert, authorityPub, err := loadKeyMaterial(cfg)
	if err != nil {
		log.Fatalf("loading key material: %v", err)
	}
	log.Printf("certificate issued by authority %x", authorityPub.SerializeCompressed())

	allocator, err := mining.NewExtendedExtranonce(
		mining.Range{Start: 0, End: cfg.ExtranonceRange0Width},
		mining.Range{Start: cfg.ExtranonceRange0Width, End: cfg.ExtranonceRange0Width + cfg.ExtranonceRange1Width},
		mining.Range{Start: cfg.ExtranonceRange0Width + cfg.ExtranonceRange1Width, End: mining.ExtranonceLen},
	)
	if err != nil {
		log.Fatalf("building extranonce allocator: %v", err)
	}

	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		log.Fatalf("listening on %s: %v", cfg.ListenAddress, err)
	}
	defer listener.Close()

	done := make(chan struct{})
	go func() {
		log.Printf("stratumd listening on %s", cfg.ListenAddress)
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-done:
					return
				default:
					log.Printf("accept error: %v", err)
					continue
				}
			}
			go handleConnection(conn, staticKP, cert, allocator, cfg.HandshakeTimeout)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down stratumd...")
	close(done)
	listener.Close()
}

// loadKeyMaterial decodes the hex-encoded key material from cfg, or
// generates a throwaway self-issued identity when none is configured.
// Convenient for a first run, never for production use.
func loadKeyMaterial(cfg config.NodeConfig) (*noise.KeyPair, noise.Certificate, *btcec.PublicKey, error) {
	if cfg.StaticPrivateKeyHex == "" || cfg.AuthorityPublicKeyHex == "" || cfg.CertificateHex == "" {
		log.Println("no key material configured; generating an ephemeral self-issued identity")
		return generateEphemeralIdentity()
	}

	staticPrivBytes, err := hex.DecodeString(cfg.StaticPrivateKeyHex)
	if err != nil {
		return nil, noise.Certificate{}, nil, fmt.Errorf("decoding static_private_key_hex: %w", err)
	}
	staticPriv, _ := btcec.PrivKeyFromBytes(staticPrivBytes)

	staticEllBytes, err := hex.DecodeString(cfg.StaticEllswiftHex)
	if err != nil {
		return nil, noise.Certificate{}, nil, fmt.Errorf("decoding static_ellswift_hex: %w", err)
	}
	if len(staticEllBytes) != noise.EllswiftSize {
		return nil, noise.Certificate{}, nil, fmt.Errorf("static_ellswift_hex: expected %d bytes, got %d", noise.EllswiftSize, len(staticEllBytes))
	}
	var staticEll ellswift.ElligatorSwift
	copy(staticEll[:], staticEllBytes)
	staticKP := &noise.KeyPair{Private: staticPriv, Ellswift: staticEll}

	authorityBytes, err := hex.DecodeString(cfg.AuthorityPublicKeyHex)
	if err != nil {
		return nil, noise.Certificate{}, nil, fmt.Errorf("decoding authority_public_key_hex: %w", err)
	}
	authorityPub, err := btcec.ParsePubKey(authorityBytes)
	if err != nil {
		return nil, noise.Certificate{}, nil, fmt.Errorf("parsing authority public key: %w", err)
	}

	certBytes, err := hex.DecodeString(cfg.CertificateHex)
	if err != nil {
		return nil, noise.Certificate{}, nil, fmt.Errorf("decoding certificate_hex: %w", err)
	}
	cert, err := noise.ParseCertificate(certBytes)
	if err != nil {
		return nil, noise.Certificate{}, nil, fmt.Errorf("parsing certificate: %w", err)
	}

	return staticKP, cert, authorityPub, nil
}

func generateEphemeralIdentity() (*noise.KeyPair, noise.Certificate, *btcec.PublicKey, error) {
	authorityPriv, err := mustEvenParityKey()
	if err != nil {
		return nil, noise.Certificate{}, nil, err
	}
	staticKP, err := noise.GenerateKeyPair()
	if err != nil {
		return nil, noise.Certificate{}, nil, err
	}
	cert, err := noise.SignCertificate(authorityPriv, staticKP.Ellswift, time.Now(), time.Now().Add(365*24*time.Hour))
	if err != nil {
		return nil, noise.Certificate{}, nil, err
	}
	return staticKP, cert, authorityPriv.PubKey(), nil
}

func mustEvenParityKey() (*btcec.PrivateKey, error) {
	for i := 0; i < 64; i++ {
		priv, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, err
		}
		if priv.PubKey().SerializeCompressed()[0] == 0x02 {
			return priv, nil
		}
	}
	return nil, fmt.Errorf("stratumd: exhausted attempts generating an even-parity authority key")
}

// runGenerate prints a fresh identity's hex-encoded fields so an operator
// can paste them into a NodeConfig.
func runGenerate() {
	staticKP, cert, authorityPub, err := generateEphemeralIdentity()
	if err != nil {
		log.Fatalf("generating identity: %v", err)
	}
	certBytes := cert.Bytes()
	fmt.Printf("static_private_key_hex: %s\n", hex.EncodeToString(staticKP.Private.Serialize()))
	fmt.Printf("static_ellswift_hex: %s\n", hex.EncodeToString(staticKP.Ellswift[:]))
	fmt.Printf("authority_public_key_hex: %s\n", hex.EncodeToString(authorityPub.SerializeCompressed()))
	fmt.Printf("certificate_hex: %s\n", hex.EncodeToString(certBytes[:]))
}

// allocatorMu serializes allocations from the pool-wide allocator, which
// every connection goroutine shares and which does no locking of its own.
var allocatorMu sync.Mutex

// handleConnection runs the responder side of the handshake against one
// inbound miner/proxy connection, then pumps framed records between the
// socket and the per-connection log once the secure channel is up.
func handleConnection(conn net.Conn, staticKP *noise.KeyPair, cert noise.Certificate, allocator *mining.ExtendedExtranonce, timeout time.Duration) {
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		log.Printf("%s: setting handshake deadline: %v", conn.RemoteAddr(), err)
		return
	}

	responder, err := noise.NewResponderHandshake(staticKP, cert)
	if err != nil {
		log.Printf("%s: building responder: %v", conn.RemoteAddr(), err)
		return
	}

	msg1 := make([]byte, noise.Message1Len)
	if _, err := readFull(conn, msg1); err != nil {
		log.Printf("%s: reading message 1: %v", conn.RemoteAddr(), err)
		return
	}
	if err := responder.ReadMessage1(msg1); err != nil {
		log.Printf("%s: handshake failed: %v", conn.RemoteAddr(), err)
		return
	}

	msg2, send, receive, err := responder.WriteMessage2()
	if err != nil {
		log.Printf("%s: handshake failed: %v", conn.RemoteAddr(), err)
		return
	}
	if _, err := conn.Write(msg2); err != nil {
		log.Printf("%s: writing message 2: %v", conn.RemoteAddr(), err)
		return
	}

	if err := conn.SetDeadline(time.Time{}); err != nil {
		log.Printf("%s: clearing deadline: %v", conn.RemoteAddr(), err)
		return
	}

	codec, err := noise.NewSecureCodec(send, receive)
	if err != nil {
		log.Printf("%s: building secure codec: %v", conn.RemoteAddr(), err)
		return
	}
	log.Printf("%s: secure channel established", conn.RemoteAddr())

	allocatorMu.Lock()
	extranonce, err := allocator.NextStandard()
	allocatorMu.Unlock()
	if err != nil {
		log.Printf("%s: no extranonce space left: %v", conn.RemoteAddr(), err)
		return
	}
	log.Printf("%s: assigned extranonce %x", conn.RemoteAddr(), extranonce.Bytes())

	for {
		plaintext, err := codec.ReadFrame(conn)
		if err != nil {
			log.Printf("%s: connection closed: %v", conn.RemoteAddr(), err)
			return
		}
		log.Printf("%s: received %d-byte frame", conn.RemoteAddr(), len(plaintext))
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
