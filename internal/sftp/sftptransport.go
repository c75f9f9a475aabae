package sftp

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"

	"github.com/ScaleFT/sshkeys"
	"github.com/pkg/sftp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

//Endpoint is an instance of the SFTP Connection Details
type Endpoint struct {
	Host        string `json:"host" mapstructure:"host"`
	Key         string `json:"key" mapstructure:"key"`
	UserName    string `json:"username" mapstructure:"username"`
	Password    string `json:"password" mapstructure:"password"`
	KeyPassword string `json:"key_password" mapstructure:"key_password"`
	Port        string `json:"port" mapstructure:"port"`
}

type transport struct {
	Client  *sftp.Client
	Session *ssh.Client
	Name    string
	log     *log.Entry
}

// Transport is the accessible type for the sftp connection
type Transport interface {
	ReadDir(remoteDir string) ([]os.FileInfo, error)
	Stat(remotePath string) (os.FileInfo, error)
	RemoveAll(remoteDir string) error
	RemoveFile(remoteFile string) error
	Open(remoteFile string) (io.ReadCloser, error)
	Create(remoteFile string) (io.WriteCloser, error)
	Rename(oldName, newName string) error
	Close() error
}

//NewConnection establish a connection
func NewConnection(name string, conf Endpoint, l *log.Entry) (Transport, error) {
	var authMethod []ssh.AuthMethod = make([]ssh.AuthMethod, 0)

	if len(conf.Key) > 0 {
		keyAuth, err := getPrivateKeyAuthentication(conf.Key, conf.KeyPassword)
		if err != nil {
			return nil, err
		}
		authMethod = append(authMethod, keyAuth)
	}
	if len(conf.Password) > 0 {
		authMethod = append(authMethod, ssh.Password(conf.Password))
	}

	connDetails := &ssh.ClientConfig{
		User:            conf.UserName,
		Auth:            authMethod,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	connDetails.SetDefaults()

	if conf.Host == "" {
		return nil, fmt.Errorf("Host has not been set for %s", name)
	}
	if conf.Port == "" {
		l.Debug("Port not set, using 22")
		conf.Port = "22"
	}

	connectionString := conf.Host + ":" + conf.Port
	l.Infof("Attempting to connect to %s ", connectionString)

	sshClient, err := ssh.Dial("tcp", connectionString, connDetails)
	if err != nil {
		return nil, err
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, err
	}
	l.Infof("Connected to %s", connectionString)

	return &transport{
		Client:  client,
		Session: sshClient,
		Name:    name,
		log:     l.WithField("sftp", name),
	}, nil
}

//ReadDir lists the direct children of a remote directory
func (c *transport) ReadDir(remoteDir string) ([]os.FileInfo, error) {
	return c.Client.ReadDir(remoteDir)
}

//Stat follows links the same way the local filesystem does
func (c *transport) Stat(remotePath string) (os.FileInfo, error) {
	return c.Client.Stat(remotePath)
}

//RemoveAll will recursively iterate through the directory
//removing every file and directory including remoteDir itself
func (c *transport) RemoveAll(remoteDir string) error {
	l := c.log.WithField("Remote Directory", remoteDir)
	l.Debugf("Attempting to remove remote directory: %s", remoteDir)

	filesInDir, err := c.Client.ReadDir(remoteDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, file := range filesInDir {
		currentRemoteFilePath := path.Join(remoteDir, file.Name())

		if file.IsDir() {
			err = c.RemoveAll(currentRemoteFilePath)
		} else {
			err = c.RemoveFile(currentRemoteFilePath)
		}
		if err != nil {
			return err
		}
	}

	if err := c.Client.RemoveDirectory(remoteDir); err != nil {
		return err
	}
	l.Debug("Removed")
	return nil
}

//RemoveFile wrapper arround the underlying SFTP Client Remove function
func (c *transport) RemoveFile(remoteFile string) error {
	c.log.Debugf("Attempting to delete file %s@%s", remoteFile, c.Name)
	err := c.Client.Remove(remoteFile)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

//Open opens a remote file for reading
func (c *transport) Open(remoteFile string) (io.ReadCloser, error) {
	return c.Client.Open(remoteFile)
}

//Create creates or truncates a remote file
func (c *transport) Create(remoteFile string) (io.WriteCloser, error) {
	c.log.Debugf("Writing %s@%s", remoteFile, c.Name)
	return c.Client.Create(remoteFile)
}

//Rename fails when newName already exists, unlike a local rename
func (c *transport) Rename(oldName, newName string) error {
	return c.Client.Rename(oldName, newName)
}

//Close closes the sftp client and the underlying ssh session
func (c *transport) Close() error {
	clientErr := c.Client.Close()
	if err := c.Session.Close(); err != nil {
		return err
	}
	return clientErr
}

func getPrivateKeyAuthentication(keyPath string, keyPassword string) (ssh.AuthMethod, error) {
	if !keyExists(keyPath) {
		return nil, fmt.Errorf("file: %s doesn't exist ", keyPath)
	}

	keyInBytes, err := ioutil.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}

	var signer ssh.Signer
	if len(keyPassword) > 0 {
		signer, err = sshkeys.ParseEncryptedPrivateKey(keyInBytes, []byte(keyPassword))
	} else {
		signer, err = ssh.ParsePrivateKey(keyInBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to decrypt private key. You may need to supply a decryption password %s", err.Error())
	}
	return ssh.PublicKeys(signer), nil
}

func keyExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
