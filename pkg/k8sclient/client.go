/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package k8sclient

import (
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client/config"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
)

// NewClientSet creates a clientset from the given kubeconfig path, falling
// back to the standard loading rules (KUBECONFIG, in-cluster) when the path
// is empty.
func NewClientSet(kubeConfig string) (kubernetes.Interface, *rest.Config, error) {
	if kubeConfig != "" {
		restConfig, err := clientcmd.BuildConfigFromFlags("", kubeConfig)
		if err != nil {
			return nil, nil, err
		}
		restConfig.QPS = common.DefaultQPS
		restConfig.Burst = common.DefaultBurst
		cli, err := NewClientSetWithRestConfig(restConfig)
		return cli, restConfig, err
	}
	return NewClientSetInCluster()
}

// NewClientSetInCluster creates and returns a new clientset for in-cluster access.
func NewClientSetInCluster() (kubernetes.Interface, *rest.Config, error) {
	restConfig, err := GetRestConfigInCluster()
	if err != nil {
		return nil, nil, err
	}
	cli, err := NewClientSetWithRestConfig(restConfig)
	return cli, restConfig, err
}

// NewClientSetWithRestConfig creates and returns a new clientset for the given rest config.
func NewClientSetWithRestConfig(cfg *rest.Config) (kubernetes.Interface, error) {
	return kubernetes.NewForConfig(cfg)
}

// GetRestConfigInCluster retrieves the REST configuration for in-cluster Kubernetes access.
func GetRestConfigInCluster() (*rest.Config, error) {
	restCfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	restCfg.QPS = common.DefaultQPS
	restCfg.Burst = common.DefaultBurst
	return restCfg, nil
}
